package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jigsaw-party/server/internal/game"
	"jigsaw-party/server/internal/gamelog"
	"jigsaw-party/server/internal/net/proto"
)

type memStorage struct {
	mu       sync.Mutex
	rows     map[string]StoredGame
	saves    int
	failSave bool
	// onSave runs during SaveGame before the row lands, standing in for
	// traffic that arrives while a persist is in flight.
	onSave func()
}

func newMemStorage() *memStorage {
	return &memStorage{rows: make(map[string]StoredGame)}
}

func (m *memStorage) LoadGame(_ context.Context, id string) (StoredGame, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row, ok, nil
}

func (m *memStorage) SaveGame(_ context.Context, row StoredGame) error {
	m.mu.Lock()
	fail := m.failSave
	hook := m.onSave
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	if fail {
		return errors.New("storage down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[row.ID] = row
	m.saves++
	return nil
}

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("write on closed conn")
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	c.frames = append(c.frames, copied)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *fakeConn) frame(i int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames[i]
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func frameType(t *testing.T, data []byte) int {
	t.Helper()
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("frame is not a tuple: %v", err)
	}
	if len(fields) == 0 {
		t.Fatalf("empty frame")
	}
	var typ int
	if err := json.Unmarshal(fields[0], &typ); err != nil {
		t.Fatalf("bad frame type: %v", err)
	}
	return typ
}

func newTestHub(t *testing.T, storage *memStorage) *Hub {
	t.Helper()
	logs := gamelog.NewStore(t.TempDir())
	cfg := HubConfig{SweepInterval: time.Minute, EvictAfterSweeps: 2}
	h := NewHub(cfg, storage, logs, nil, nil, zerolog.Nop())
	base := time.UnixMilli(1_700_000_000_000)
	h.now = func() time.Time { return base }
	return h
}

func createTestGame(t *testing.T, h *Hub, opts CreateGameOptions) string {
	t.Helper()
	if opts.ImageW == 0 {
		opts.ImageW = 300
		opts.ImageH = 300
		opts.TargetCount = 9
	}
	id, err := h.CreateGame(context.Background(), opts)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	return id
}

func TestCreateGamePersistsInitialRow(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)

	id := createTestGame(t, h, CreateGameOptions{CreatorUserID: "owner", Private: true})
	if id == "" {
		t.Fatalf("empty game id")
	}
	if _, ok := h.Registry().Get(id); !ok {
		t.Fatalf("game not loaded in registry")
	}

	row, found, err := storage.LoadGame(context.Background(), id)
	if err != nil || !found {
		t.Fatalf("stored row missing: found=%v err=%v", found, err)
	}
	if row.CreatorUserID != "owner" || !row.Private {
		t.Fatalf("row = %+v", row)
	}
	g, err := game.Decode(row.Data)
	if err != nil {
		t.Fatalf("stored data does not decode: %v", err)
	}
	if g.ID != id || len(g.Puzzle.Pieces) == 0 {
		t.Fatalf("decoded game id=%s pieces=%d", g.ID, len(g.Puzzle.Pieces))
	}
}

func TestConnectSendsInitAndRegistersPlayer(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	conn := &fakeConn{}
	sess, err := h.Connect(context.Background(), id, "alice", "", conn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if sess.ClientID != "alice" {
		t.Fatalf("client id = %q", sess.ClientID)
	}
	if conn.frameCount() == 0 {
		t.Fatalf("no frames sent on connect")
	}
	if typ := frameType(t, conn.frame(0)); typ != proto.MsgInit {
		t.Fatalf("first frame type = %d, want %d", typ, proto.MsgInit)
	}

	g, _ := h.Registry().Get(id)
	if g.PlayerIdx("alice") < 0 {
		t.Fatalf("player not registered in game")
	}
}

func TestConnectAssignsClientID(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	sess, err := h.Connect(context.Background(), id, "", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if sess.ClientID == "" {
		t.Fatalf("expected a generated client id")
	}
}

func TestConnectUnknownGame(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)

	conn := &fakeConn{}
	_, err := h.Connect(context.Background(), "nope", "alice", "", conn)
	if !errors.Is(err, game.ErrGameNotFound) {
		t.Fatalf("err = %v", err)
	}
	if conn.frameCount() != 1 {
		t.Fatalf("frames = %d", conn.frameCount())
	}
	if got := string(conn.frame(0)); !strings.Contains(got, proto.ReasonGameDoesNotExist) {
		t.Fatalf("error frame = %s", got)
	}
}

func TestConnectPasswordChecks(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{CreatorUserID: "owner", JoinPassword: "hunter2"})

	conn := &fakeConn{}
	if _, err := h.Connect(context.Background(), id, "bob", "wrong", conn); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("err = %v", err)
	}
	if got := string(conn.frame(0)); !strings.Contains(got, proto.ReasonWrongPassword) {
		t.Fatalf("error frame = %s", got)
	}

	conn = &fakeConn{}
	if _, err := h.Connect(context.Background(), id, "bob", "", conn); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("err = %v", err)
	}
	if got := string(conn.frame(0)); !strings.Contains(got, proto.ReasonRequiresPassword) {
		t.Fatalf("error frame = %s", got)
	}

	// The creator is exempt from the join password.
	if _, err := h.Connect(context.Background(), id, "owner", "", &fakeConn{}); err != nil {
		t.Fatalf("creator connect: %v", err)
	}

	if _, err := h.Connect(context.Background(), id, "bob", "hunter2", &fakeConn{}); err != nil {
		t.Fatalf("password connect: %v", err)
	}
}

func TestUpdateBroadcastsTaggedWithOrigin(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	aliceConn := &fakeConn{}
	alice, err := h.Connect(context.Background(), id, "alice", "", aliceConn)
	if err != nil {
		t.Fatalf("Connect alice: %v", err)
	}
	bobConn := &fakeConn{}
	if _, err := h.Connect(context.Background(), id, "bob", "", bobConn); err != nil {
		t.Fatalf("Connect bob: %v", err)
	}
	aliceConn.reset()
	bobConn.reset()

	alice.HandleMessage(context.Background(), []byte(`[2, 7, [3, 50, 60]]`))

	if bobConn.frameCount() != 1 {
		t.Fatalf("bob frames = %d", bobConn.frameCount())
	}
	var fields []json.RawMessage
	if err := json.Unmarshal(bobConn.frame(0), &fields); err != nil || len(fields) != 4 {
		t.Fatalf("update frame = %s (err %v)", bobConn.frame(0), err)
	}
	var origin string
	var seq int
	json.Unmarshal(fields[1], &origin)
	json.Unmarshal(fields[2], &seq)
	if origin != "alice" || seq != 7 {
		t.Fatalf("origin=%q seq=%d", origin, seq)
	}
	// The origin receives its own echo too and filters it client side.
	if aliceConn.frameCount() != 1 {
		t.Fatalf("alice frames = %d", aliceConn.frameCount())
	}

	g, _ := h.Registry().Get(id)
	p, ok := g.Player("alice")
	if !ok || p.X != 50 || p.Y != 60 {
		t.Fatalf("cursor not applied: %+v", p)
	}
}

func TestInitRequestResendsFullState(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	conn := &fakeConn{}
	sess, err := h.Connect(context.Background(), id, "alice", "", conn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	conn.reset()

	sess.HandleMessage(context.Background(), []byte(`[1]`))
	if conn.frameCount() != 1 {
		t.Fatalf("frames = %d", conn.frameCount())
	}
	if typ := frameType(t, conn.frame(0)); typ != proto.MsgInit {
		t.Fatalf("frame type = %d", typ)
	}
}

func TestMalformedMessagesAreDropped(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	conn := &fakeConn{}
	sess, err := h.Connect(context.Background(), id, "alice", "", conn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	conn.reset()

	sess.HandleMessage(context.Background(), []byte(`not json`))
	sess.HandleMessage(context.Background(), []byte(`[99]`))
	sess.HandleMessage(context.Background(), []byte(`[2, 1, "not a tuple"]`))

	if conn.frameCount() != 0 {
		t.Fatalf("frames = %d, connection should stay quiet", conn.frameCount())
	}
	if conn.isClosed() {
		t.Fatalf("connection closed over malformed input")
	}
}

func TestBanKicksTargetAndBlocksRejoin(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{CreatorUserID: "owner"})

	ownerConn := &fakeConn{}
	owner, err := h.Connect(context.Background(), id, "owner", "", ownerConn)
	if err != nil {
		t.Fatalf("Connect owner: %v", err)
	}
	malloryConn := &fakeConn{}
	if _, err := h.Connect(context.Background(), id, "mallory", "", malloryConn); err != nil {
		t.Fatalf("Connect mallory: %v", err)
	}
	ownerConn.reset()
	malloryConn.reset()

	owner.HandleMessage(context.Background(), []byte(`[2, 1, [11, "mallory"]]`))

	if !malloryConn.isClosed() {
		t.Fatalf("banned client not disconnected")
	}
	if got := string(malloryConn.frame(0)); !strings.Contains(got, proto.ReasonBanned) {
		t.Fatalf("kick frame = %s", got)
	}
	if typ := frameType(t, ownerConn.frame(0)); typ != proto.MsgSync {
		t.Fatalf("owner frame type = %d, want sync", typ)
	}

	g, _ := h.Registry().Get(id)
	if !g.Banned["mallory"] {
		t.Fatalf("ban not recorded")
	}

	rejoin := &fakeConn{}
	if _, err := h.Connect(context.Background(), id, "mallory", "", rejoin); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("rejoin err = %v", err)
	}

	owner.HandleMessage(context.Background(), []byte(`[2, 2, [12, "mallory"]]`))
	if g.Banned["mallory"] {
		t.Fatalf("unban not applied")
	}
}

func TestAdminCommandsRequireCreator(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{CreatorUserID: "owner"})

	bobConn := &fakeConn{}
	bob, err := h.Connect(context.Background(), id, "bob", "", bobConn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	bobConn.reset()

	bob.HandleMessage(context.Background(), []byte(`[2, 1, [11, "owner"]]`))

	g, _ := h.Registry().Get(id)
	if len(g.Banned) != 0 {
		t.Fatalf("unauthorized ban applied: %v", g.Banned)
	}
	if bobConn.frameCount() != 0 {
		t.Fatalf("frames = %d", bobConn.frameCount())
	}
}

func TestSessionCloseReleasesSocket(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	sess, err := h.Connect(context.Background(), id, "alice", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if d := h.DiagnosticsSnapshot(); d.Sockets != 1 {
		t.Fatalf("sockets = %d", d.Sockets)
	}

	sess.Close()
	if d := h.DiagnosticsSnapshot(); d.Sockets != 0 {
		t.Fatalf("sockets after close = %d", d.Sockets)
	}

	g, _ := h.Registry().Get(id)
	if p, _ := g.Player("alice"); p.MouseDown {
		t.Fatalf("mouse still down after close")
	}
}

func TestBroadcastDeliveryFollowsApplyOrder(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	ctx := context.Background()
	alice, err := h.Connect(ctx, id, "alice", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect alice: %v", err)
	}
	bob, err := h.Connect(ctx, id, "bob", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect bob: %v", err)
	}
	observer := &fakeConn{}
	if _, err := h.Connect(ctx, id, "carol", "", observer); err != nil {
		t.Fatalf("Connect carol: %v", err)
	}
	observer.reset()

	const moves = 200
	var wg sync.WaitGroup
	for _, sess := range []*Session{alice, bob} {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			for i := 1; i <= moves; i++ {
				msg := fmt.Sprintf(`[2, %d, [3, %d, %d]]`, i, i, i)
				sess.HandleMessage(ctx, []byte(msg))
			}
		}(sess)
	}
	wg.Wait()

	// The last frame delivered for each player must carry that player's
	// final cursor position; a stale frame arriving after a newer one
	// would leave the observer with an old position.
	last := make(map[string][2]float64)
	for i := 0; i < observer.frameCount(); i++ {
		data := observer.frame(i)
		if frameType(t, data) != proto.MsgUpdate {
			continue
		}
		var fields []json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil || len(fields) < 4 {
			t.Fatalf("bad update frame: %v", err)
		}
		var origin string
		if err := json.Unmarshal(fields[1], &origin); err != nil {
			t.Fatalf("bad origin: %v", err)
		}
		var changes [][]json.RawMessage
		if err := json.Unmarshal(fields[3], &changes); err != nil {
			t.Fatalf("bad change list: %v", err)
		}
		for _, ch := range changes {
			var kind int
			if err := json.Unmarshal(ch[0], &kind); err != nil || kind != int(game.ChangePlayer) {
				continue
			}
			var player []json.RawMessage
			if err := json.Unmarshal(ch[1], &player); err != nil || len(player) < 3 {
				t.Fatalf("bad player tuple: %v", err)
			}
			var x, y float64
			if err := json.Unmarshal(player[1], &x); err != nil {
				t.Fatalf("bad x: %v", err)
			}
			if err := json.Unmarshal(player[2], &y); err != nil {
				t.Fatalf("bad y: %v", err)
			}
			last[origin] = [2]float64{x, y}
		}
	}

	g, _ := h.Registry().Get(id)
	for _, pid := range []string{"alice", "bob"} {
		p, ok := g.Player(pid)
		if !ok {
			t.Fatalf("player %s missing", pid)
		}
		got, seen := last[pid]
		if !seen {
			t.Fatalf("no update frames observed for %s", pid)
		}
		if got[0] != p.X || got[1] != p.Y {
			t.Fatalf("last frame for %s = %v, state = (%v, %v)", pid, got, p.X, p.Y)
		}
	}
}

func TestSweepPersistsDirtyAndEvictsIdle(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	ctx := context.Background()
	sess, err := h.Connect(ctx, id, "alice", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sess.HandleMessage(ctx, []byte(`[2, 1, [3, 10, 10]]`))
	sess.Close()

	before := func() int {
		storage.mu.Lock()
		defer storage.mu.Unlock()
		return storage.saves
	}()

	h.Sweep(ctx)
	after := func() int {
		storage.mu.Lock()
		defer storage.mu.Unlock()
		return storage.saves
	}()
	if after != before+1 {
		t.Fatalf("saves = %d, want %d", after, before+1)
	}
	if d := h.DiagnosticsSnapshot(); d.DirtyGames != 0 {
		t.Fatalf("dirty games after sweep = %d", d.DirtyGames)
	}
	if d := h.DiagnosticsSnapshot(); d.LoadedGames != 1 {
		t.Fatalf("game evicted too early")
	}

	h.Sweep(ctx)
	if d := h.DiagnosticsSnapshot(); d.LoadedGames != 0 {
		t.Fatalf("game not evicted after idle sweeps")
	}
	if h.Registry().Exists(id) {
		t.Fatalf("registry still holds evicted game")
	}
	if snap := h.TelemetrySnapshot(); snap.Evictions != 1 {
		t.Fatalf("evictions = %d", snap.Evictions)
	}
}

func TestConnectedGameIsNeverEvicted(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	if _, err := h.Connect(context.Background(), id, "alice", "", &fakeConn{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	for i := 0; i < 5; i++ {
		h.Sweep(context.Background())
	}
	if !h.Registry().Exists(id) {
		t.Fatalf("game with live socket was evicted")
	}
}

func TestSweepRetriesFailedPersist(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	sess, err := h.Connect(context.Background(), id, "alice", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sess.HandleMessage(context.Background(), []byte(`[2, 1, [3, 10, 10]]`))
	sess.Close()

	storage.mu.Lock()
	storage.failSave = true
	storage.mu.Unlock()

	for i := 0; i < 5; i++ {
		h.Sweep(context.Background())
	}
	if !h.Registry().Exists(id) {
		t.Fatalf("dirty game evicted while persistence was failing")
	}
	if snap := h.TelemetrySnapshot(); snap.PersistErrors == 0 {
		t.Fatalf("persist errors not counted")
	}

	storage.mu.Lock()
	storage.failSave = false
	storage.mu.Unlock()

	h.Sweep(context.Background())
	if d := h.DiagnosticsSnapshot(); d.DirtyGames != 0 {
		t.Fatalf("dirty games = %d after storage recovered", d.DirtyGames)
	}
}

func TestSweepKeepsEventThatRacesPersist(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	ctx := context.Background()
	sess, err := h.Connect(ctx, id, "alice", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sess.HandleMessage(ctx, []byte(`[2, 1, [3, 10, 10]]`))

	var once sync.Once
	storage.mu.Lock()
	storage.onSave = func() {
		once.Do(func() {
			sess.HandleMessage(ctx, []byte(`[2, 2, [3, 77, 78]]`))
		})
	}
	storage.mu.Unlock()

	// The first sweep snapshots the game before the second move lands,
	// so that move must keep the room marked dirty.
	h.Sweep(ctx)
	if d := h.DiagnosticsSnapshot(); d.DirtyGames != 1 {
		t.Fatalf("dirty games = %d, want 1", d.DirtyGames)
	}

	h.Sweep(ctx)
	storage.mu.Lock()
	row := storage.rows[id]
	storage.mu.Unlock()
	g, err := game.Decode(row.Data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p, ok := g.Player("alice")
	if !ok || p.X != 77 || p.Y != 78 {
		t.Fatalf("move lost across persist: %+v", p)
	}
}

func TestConnectReloadsRoomDroppedBySweeper(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	ctx := context.Background()
	h.FlushAll(ctx)

	h.mu.Lock()
	orphan := h.rooms[id]
	h.mu.Unlock()

	// Mimic the sweeper dropping the room just after a Connect looked it up.
	orphan.mu.Lock()
	orphan.evicted = true
	orphan.mu.Unlock()
	h.mu.Lock()
	delete(h.rooms, id)
	h.mu.Unlock()
	h.registry.Unload(id)

	sess, err := h.Connect(ctx, id, "alice", "", &fakeConn{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if sess.room == orphan {
		t.Fatalf("session joined a room the sweeper already dropped")
	}
	h.mu.Lock()
	current := h.rooms[id]
	h.mu.Unlock()
	if current == nil || current != sess.room {
		t.Fatalf("reloaded room not registered with the hub")
	}
}

func TestGameReloadsFromStorageAfterRestart(t *testing.T) {
	storage := newMemStorage()
	logDir := t.TempDir()
	logs := gamelog.NewStore(logDir)
	cfg := HubConfig{SweepInterval: time.Minute, EvictAfterSweeps: 1}
	h := NewHub(cfg, storage, logs, nil, nil, zerolog.Nop())

	id, err := h.CreateGame(context.Background(), CreateGameOptions{ImageW: 300, ImageH: 300, TargetCount: 9})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	conn := &fakeConn{}
	sess, err := h.Connect(context.Background(), id, "alice", "", conn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sess.HandleMessage(context.Background(), []byte(`[2, 1, [3, 42, 43]]`))
	h.FlushAll(context.Background())

	restarted := NewHub(cfg, storage, gamelog.NewStore(logDir), nil, nil, zerolog.Nop())
	conn2 := &fakeConn{}
	if _, err := restarted.Connect(context.Background(), id, "alice", "", conn2); err != nil {
		t.Fatalf("Connect after restart: %v", err)
	}
	g, ok := restarted.Registry().Get(id)
	if !ok {
		t.Fatalf("game not reloaded")
	}
	p, ok := g.Player("alice")
	if !ok || p.X != 42 || p.Y != 43 {
		t.Fatalf("persisted cursor lost: %+v", p)
	}
	if !restarted.HasReplay(context.Background(), id) {
		t.Fatalf("replay log not available after restart")
	}
}

func TestRosterSplitsActiveAndIdlePlayers(t *testing.T) {
	storage := newMemStorage()
	h := newTestHub(t, storage)
	id := createTestGame(t, h, CreateGameOptions{})

	if _, err := h.Connect(context.Background(), id, "alice", "", &fakeConn{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	now := h.nowMs()
	g, _ := h.Registry().Get(id)
	ghost := g.AddPlayer("ghost", now-60_000)
	ghost.Points = 3
	g.AddPlayer("lurker", now-60_000)

	roster, err := h.Roster(context.Background(), id)
	if err != nil {
		t.Fatalf("Roster: %v", err)
	}
	if len(roster.Active) != 1 || roster.Active[0].ID != "alice" {
		t.Fatalf("active = %+v", roster.Active)
	}
	if len(roster.Idle) != 1 || roster.Idle[0].ID != "ghost" || roster.Idle[0].Points != 3 {
		t.Fatalf("idle = %+v", roster.Idle)
	}

	if _, err := h.Roster(context.Background(), "nope"); !errors.Is(err, game.ErrGameNotFound) {
		t.Fatalf("err = %v", err)
	}
}
