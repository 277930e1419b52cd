// Package server owns the hub: the orchestration layer that ties the game
// registry, event processor, replay log and storage together behind the
// websocket protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jigsaw-party/server/internal/game"
	"jigsaw-party/server/internal/gamelog"
	"jigsaw-party/server/internal/net/proto"
	"jigsaw-party/server/internal/puzzle"
	"jigsaw-party/server/logging"
	"jigsaw-party/server/logging/gameplay"
)

// ErrAccessDenied is returned by Connect after an ERROR reply was already
// sent to the client.
var ErrAccessDenied = errors.New("server: access denied")

// StoredGame is one persisted game row.
type StoredGame struct {
	ID            string
	CreatorUserID string
	ImageURL      string
	CreatedTs     int64
	FinishedTs    int64
	Data          json.RawMessage
	Private       bool
}

// Storage is the external persistence collaborator.
type Storage interface {
	LoadGame(ctx context.Context, id string) (StoredGame, bool, error)
	SaveGame(ctx context.Context, row StoredGame) error
}

// Conn is the transport surface the hub writes to. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// textMessage mirrors websocket.TextMessage without importing the
// transport package here.
const textMessage = 1

type socket struct {
	mu       sync.Mutex
	conn     Conn
	clientID string
}

func (s *socket) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(textMessage, data)
}

// room is the per-game runtime: the loaded game plus its live sockets. All
// mutations to the game are serialized under mu, which is what gives each
// game its single-writer ordering guarantee. Different rooms are fully
// independent.
type room struct {
	mu         sync.Mutex
	g          *game.Game
	sockets    map[*socket]struct{}
	dirty      bool
	zeroSweeps int
	// evicted marks a room the sweeper has removed from the map; a Connect
	// that raced the removal must reload instead of joining the orphan.
	evicted bool

	// sendMu serializes encode-plus-send so frames reach each socket in
	// the order their events were applied. It is acquired before mu and
	// held across the broadcast.
	sendMu sync.Mutex
}

// Session is one live client connection to one game.
type Session struct {
	hub    *Hub
	room   *room
	sock   *socket
	gameID string
	// ClientID is the identity the connection authenticated as.
	ClientID string
}

// Hub orchestrates every loaded game.
type Hub struct {
	cfg       HubConfig
	registry  *game.Registry
	storage   Storage
	logs      *gamelog.Store
	access    Access
	publisher logging.Publisher
	logger    zerolog.Logger
	telemetry Telemetry

	mu    sync.Mutex
	rooms map[string]*room

	now func() time.Time
}

// NewHub wires the hub with its collaborators. A nil access collaborator
// falls back to the metadata carried on each game.
func NewHub(cfg HubConfig, storage Storage, logs *gamelog.Store, access Access, publisher logging.Publisher, logger zerolog.Logger) *Hub {
	if access == nil {
		access = NewGameAccess()
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Hub{
		cfg:       cfg,
		registry:  game.NewRegistry(),
		storage:   storage,
		logs:      logs,
		access:    access,
		publisher: publisher,
		logger:    logger,
		rooms:     make(map[string]*room),
		now:       time.Now,
	}
}

// Registry exposes the game registry for diagnostics and tests.
func (h *Hub) Registry() *game.Registry { return h.registry }

// TelemetrySnapshot copies the hub counters.
func (h *Hub) TelemetrySnapshot() TelemetrySnapshot { return h.telemetry.Snapshot() }

func (h *Hub) nowMs() int64 { return h.now().UnixMilli() }

// CreateGameOptions are the creation parameters accepted from the outer
// HTTP surface.
type CreateGameOptions struct {
	ImageURL       string
	ImageW         int
	ImageH         int
	TargetCount    int
	ScoreMode      game.ScoreMode
	ShapeMode      puzzle.ShapeMode
	SnapMode       game.SnapMode
	RotationMode   puzzle.RotationMode
	CreatorUserID  string
	Private        bool
	JoinPassword   string
	RequireAccount bool
}

// CreateGame generates a new puzzle, registers the game, starts its replay
// log and persists the initial row. The generator seed derives from the
// game id and start timestamp, which is exactly what replay re-derives
// later.
func (h *Hub) CreateGame(ctx context.Context, opts CreateGameOptions) (string, error) {
	id := uuid.NewString()
	started := h.nowMs()

	g, err := game.New(game.NewOptions{
		ID:            id,
		Seed:          game.ReplaySeed(id, started),
		Image:         puzzle.Dim{W: opts.ImageW, H: opts.ImageH},
		ImageURL:      opts.ImageURL,
		TargetCount:   opts.TargetCount,
		ScoreMode:     opts.ScoreMode,
		ShapeMode:     opts.ShapeMode,
		SnapMode:      opts.SnapMode,
		RotationMode:  opts.RotationMode,
		CreatorUserID: opts.CreatorUserID,
		Private:       opts.Private,
		GameVersion:   puzzle.GameVersionCurrent,
		JoinPassword:  opts.JoinPassword,
		RequireAcct:   opts.RequireAccount,
		Started:       started,
	})
	if err != nil {
		return "", err
	}

	if err := h.logs.Create(gamelog.Header{
		GameID:         id,
		ImageW:         opts.ImageW,
		ImageH:         opts.ImageH,
		ImageURL:       opts.ImageURL,
		TargetCount:    opts.TargetCount,
		ScoreMode:      int(opts.ScoreMode),
		ShapeMode:      int(opts.ShapeMode),
		SnapMode:       int(opts.SnapMode),
		RotationMode:   int(opts.RotationMode),
		CreatorUserID:  opts.CreatorUserID,
		Private:        opts.Private,
		GameVersion:    int(puzzle.GameVersionCurrent),
		JoinPassword:   opts.JoinPassword,
		RequireAccount: opts.RequireAccount,
		Started:        started,
	}); err != nil {
		h.logger.Error().Err(err).Str("game", id).Msg("failed to start replay log")
	}

	h.registry.Load(g)
	h.mu.Lock()
	h.rooms[id] = &room{g: g, sockets: make(map[*socket]struct{}), dirty: true}
	h.mu.Unlock()

	if err := h.persistGame(ctx, g); err != nil {
		h.logger.Error().Err(err).Str("game", id).Msg("initial persist failed")
	}

	gameplay.GameCreated(ctx, h.publisher, id, gameplay.GameCreatedPayload{
		PieceCount: g.Puzzle.Info.PieceCount,
		Private:    opts.Private,
	})
	return id, nil
}

// roomFor returns the loaded room, lazily loading the game from storage on
// first contact. Unparseable stored data reports the same not-found error
// as a missing row.
func (h *Hub) roomFor(ctx context.Context, gameID string) (*room, error) {
	h.mu.Lock()
	if rm, ok := h.rooms[gameID]; ok {
		h.mu.Unlock()
		return rm, nil
	}
	h.mu.Unlock()

	row, found, err := h.storage.LoadGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("server: load game %s: %w", gameID, err)
	}
	if !found {
		return nil, game.ErrGameNotFound
	}
	g, err := game.Decode(row.Data)
	if err != nil {
		h.logger.Warn().Err(err).Str("game", gameID).Msg("stored game data unparseable")
		return nil, game.ErrGameNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if rm, ok := h.rooms[gameID]; ok {
		return rm, nil
	}
	h.registry.Load(g)
	rm := &room{g: g, sockets: make(map[*socket]struct{})}
	h.rooms[gameID] = rm
	return rm, nil
}

// Connect performs the connection bootstrap: lazy load, access check,
// socket registration, join logging and the full-state INIT reply. The
// returned session handles all further messages from this client.
func (h *Hub) Connect(ctx context.Context, gameID, clientID, password string, conn Conn) (*Session, error) {
	sock := &socket{conn: conn, clientID: clientID}

	var rm *room
	for {
		var err error
		rm, err = h.roomFor(ctx, gameID)
		if err != nil {
			if errors.Is(err, game.ErrGameNotFound) {
				if data, encErr := proto.EncodeError(proto.ReasonGameDoesNotExist); encErr == nil {
					sock.send(data)
				}
			}
			return nil, err
		}
		rm.sendMu.Lock()
		rm.mu.Lock()
		if !rm.evicted {
			break
		}
		// The sweeper dropped this room between lookup and lock; reload.
		rm.mu.Unlock()
		rm.sendMu.Unlock()
	}

	if clientID == "" {
		clientID = uuid.NewString()
		sock.clientID = clientID
	}

	if reason := h.access.CheckJoin(rm.g, clientID, password); reason != "" {
		rm.mu.Unlock()
		rm.sendMu.Unlock()
		if data, encErr := proto.EncodeError(reason); encErr == nil {
			sock.send(data)
		}
		return nil, ErrAccessDenied
	}

	ts := h.nowMs()
	isNew := rm.g.PlayerIdx(clientID) < 0
	rm.g.AddPlayer(clientID, ts)
	rm.g.TouchPlayer(clientID, ts)
	rm.dirty = true
	rm.zeroSweeps = 0
	h.logPlayerTouch(rm.g, clientID, isNew, ts)

	rm.sockets[sock] = struct{}{}
	init, err := proto.EncodeInit(rm.g.Encode())
	changes := []game.Change{{Kind: game.ChangePlayer, Player: snapshotPlayer(rm.g, clientID)}}
	update := h.encodeUpdate(clientID, 0, changes)
	rm.mu.Unlock()

	if err != nil {
		rm.sendMu.Unlock()
		return nil, fmt.Errorf("server: encode init: %w", err)
	}
	if err := sock.send(init); err != nil {
		rm.sendMu.Unlock()
		h.dropSocket(rm, sock)
		return nil, err
	}
	h.telemetry.recordBroadcast(len(init))
	if update != nil {
		h.broadcast(rm, update, sock)
	}
	rm.sendMu.Unlock()

	gameplay.PlayerJoined(ctx, h.publisher, gameID, clientID)

	return &Session{hub: h, room: rm, sock: sock, gameID: gameID, ClientID: clientID}, nil
}

func snapshotPlayer(g *game.Game, id string) *game.Player {
	if p, ok := g.Player(id); ok {
		snapshot := *p
		return &snapshot
	}
	return &game.Player{ID: id}
}

func (h *Hub) logPlayerTouch(g *game.Game, clientID string, isNew bool, ts int64) {
	if !gamelog.ShouldLog(g.Puzzle.Data.Finished, ts) {
		return
	}
	var entry gamelog.Entry
	if isNew {
		entry = gamelog.Entry{Kind: gamelog.EntryAddPlayer, PlayerID: clientID, Ts: ts}
	} else {
		entry = gamelog.Entry{Kind: gamelog.EntryUpdatePlayer, PlayerIdx: g.PlayerIdx(clientID), Ts: ts}
	}
	if err := h.logs.Append(g.ID, entry); err != nil && !errors.Is(err, gamelog.ErrNoLog) {
		h.logger.Warn().Err(err).Str("game", g.ID).Msg("replay log append failed")
	}
}

// HandleMessage processes one raw client frame. Malformed frames are
// logged and dropped; the connection stays up.
func (s *Session) HandleMessage(ctx context.Context, data []byte) {
	msg, err := proto.DecodeClientMessage(data)
	if err != nil {
		s.hub.logger.Warn().Err(err).Str("client", s.ClientID).Msg("discarding malformed message")
		return
	}

	switch msg.Type {
	case proto.MsgInit:
		s.room.sendMu.Lock()
		s.room.mu.Lock()
		init, err := proto.EncodeInit(s.room.g.Encode())
		s.room.mu.Unlock()
		if err != nil {
			s.room.sendMu.Unlock()
			s.hub.logger.Error().Err(err).Str("game", s.gameID).Msg("encode init failed")
			return
		}
		err = s.sock.send(init)
		s.room.sendMu.Unlock()
		if err != nil {
			s.hub.dropAndClose(s)
		}
	case proto.MsgUpdate:
		in, err := game.DecodeInput(msg.Input)
		if err != nil {
			s.hub.logger.Warn().Err(err).Str("client", s.ClientID).Msg("discarding malformed input event")
			return
		}
		if in.Privileged() {
			s.hub.handleAdmin(ctx, s, in)
			return
		}
		s.hub.applyEvent(s.room, s.ClientID, msg.Seq, in, msg.Input)
	}
}

// applyEvent runs one input through the event processor under the room
// lock, appends it to the replay log and broadcasts the resulting diffs
// tagged with the origin client and sequence.
func (h *Hub) applyEvent(rm *room, clientID string, seq int, in game.Input, raw json.RawMessage) {
	ts := h.nowMs()

	rm.sendMu.Lock()
	rm.mu.Lock()
	wasFinished := rm.g.Puzzle.Data.Finished != 0
	changes, anySnapped, _ := game.Process(rm.g, clientID, in, ts)
	if anySnapped {
		changes = append(changes, game.Change{Kind: game.ChangePlayerSnap, PlayerID: clientID})
	}
	rm.dirty = true
	finished := rm.g.Puzzle.Data.Finished

	if gamelog.ShouldLog(finished, ts) {
		idx := rm.g.PlayerIdx(clientID)
		entry := gamelog.Entry{Kind: gamelog.EntryGameEvent, PlayerIdx: idx, Input: raw, Ts: ts}
		if in.Kind == game.InputConnectionClose {
			entry.Input = json.RawMessage(mustEncodeInput(in))
		}
		if err := h.logs.Append(rm.g.ID, entry); err != nil && !errors.Is(err, gamelog.ErrNoLog) {
			h.logger.Warn().Err(err).Str("game", rm.g.ID).Msg("replay log append failed")
		}
	}

	update := h.encodeUpdate(clientID, seq, changes)
	justFinished := !wasFinished && finished != 0
	gameID := rm.g.ID
	rm.mu.Unlock()

	h.telemetry.recordEvent()
	if update != nil {
		h.broadcast(rm, update, nil)
	}
	rm.sendMu.Unlock()

	if anySnapped {
		gameplay.PiecesSnapped(context.Background(), h.publisher, gameID, clientID)
	}
	if justFinished {
		gameplay.GameFinished(context.Background(), h.publisher, gameID)
	}
}

func mustEncodeInput(in game.Input) []byte {
	data, err := json.Marshal(game.EncodeInput(in))
	if err != nil {
		return []byte("[0]")
	}
	return data
}

func (h *Hub) encodeUpdate(originID string, seq int, changes []game.Change) []byte {
	if len(changes) == 0 {
		return nil
	}
	data, err := proto.EncodeUpdate(originID, seq, game.EncodeChanges(changes))
	if err != nil {
		h.logger.Error().Err(err).Msg("encode update failed")
		return nil
	}
	return data
}

// handleAdmin routes privileged ban/unban commands around the event
// processor with their own authorization check.
func (h *Hub) handleAdmin(ctx context.Context, s *Session, in game.Input) {
	rm := s.room
	rm.sendMu.Lock()
	rm.mu.Lock()
	if !h.access.CanAdmin(rm.g, s.ClientID) {
		rm.mu.Unlock()
		rm.sendMu.Unlock()
		h.logger.Warn().Str("client", s.ClientID).Str("game", s.gameID).Msg("unauthorized admin command")
		return
	}

	target := in.Value
	var kicked []*socket
	switch in.Kind {
	case game.InputBan:
		rm.g.Banned[target] = true
		for sock := range rm.sockets {
			if sock.clientID == target {
				kicked = append(kicked, sock)
				delete(rm.sockets, sock)
			}
		}
	case game.InputUnban:
		delete(rm.g.Banned, target)
	}
	rm.dirty = true
	sync, err := proto.EncodeSync(rm.g.Encode())
	rm.mu.Unlock()

	for _, sock := range kicked {
		if data, encErr := proto.EncodeError(proto.ReasonBanned); encErr == nil {
			sock.send(data)
		}
		sock.conn.Close()
	}

	if err != nil {
		rm.sendMu.Unlock()
		h.logger.Error().Err(err).Str("game", s.gameID).Msg("encode sync failed")
		return
	}
	h.broadcast(rm, sync, nil)
	rm.sendMu.Unlock()

	gameplay.AdminCommand(ctx, h.publisher, s.gameID, s.ClientID, target, gameplay.AdminCommandPayload{Kind: int(in.Kind)})
}

// Close tears the session down: the socket is removed and a synthetic
// CONNECTION_CLOSE releases whatever the client was holding.
func (s *Session) Close() {
	s.hub.dropSocket(s.room, s.sock)
	s.hub.applyEvent(s.room, s.ClientID, 0, game.Input{Kind: game.InputConnectionClose}, nil)
}

func (h *Hub) dropSocket(rm *room, sock *socket) {
	rm.mu.Lock()
	delete(rm.sockets, sock)
	rm.mu.Unlock()
}

func (h *Hub) dropAndClose(s *Session) {
	h.dropSocket(s.room, s.sock)
	s.sock.conn.Close()
}

// broadcast sends a finalized frame to every socket in the room except
// skip. Write failures evict the broken socket.
func (h *Hub) broadcast(rm *room, data []byte, skip *socket) {
	rm.mu.Lock()
	socks := make([]*socket, 0, len(rm.sockets))
	for sock := range rm.sockets {
		if sock != skip {
			socks = append(socks, sock)
		}
	}
	rm.mu.Unlock()

	for _, sock := range socks {
		if err := sock.send(data); err != nil {
			h.logger.Warn().Err(err).Str("client", sock.clientID).Msg("broadcast failed, dropping socket")
			h.dropSocket(rm, sock)
			sock.conn.Close()
			continue
		}
		h.telemetry.recordBroadcast(len(data))
	}
}

// RunSweeper drives the periodic persistence and idle-eviction sweep until
// the context ends. A game is evicted after a fixed number of consecutive
// sweeps with zero connected sockets, flushing first.
func (h *Hub) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.FlushAll(context.Background())
			return
		case <-ticker.C:
			h.Sweep(ctx)
		}
	}
}

// Sweep persists every dirty game and evicts games that stayed empty for
// EvictAfterSweeps consecutive sweeps. Storage failures are logged and the
// game stays dirty for the next sweep.
func (h *Hub) Sweep(ctx context.Context) {
	h.mu.Lock()
	ids := make([]string, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.mu.Lock()
		rm, ok := h.rooms[id]
		h.mu.Unlock()
		if !ok {
			continue
		}

		rm.mu.Lock()
		dirty := rm.dirty
		empty := len(rm.sockets) == 0
		if empty {
			rm.zeroSweeps++
		} else {
			rm.zeroSweeps = 0
		}
		evict := empty && rm.zeroSweeps >= h.cfg.EvictAfterSweeps
		g := rm.g
		rm.mu.Unlock()

		if dirty {
			if err := h.persistGame(ctx, g); err != nil {
				h.telemetry.recordPersistError()
				h.logger.Error().Err(err).Str("game", id).Msg("persist failed, retrying next sweep")
				continue
			}
		}

		if evict {
			if err := h.logs.Unload(id); err != nil {
				h.logger.Error().Err(err).Str("game", id).Msg("replay log flush failed, delaying eviction")
				continue
			}
			// A client can connect or an event can land between the evict
			// decision and here; re-check under both locks before dropping.
			h.mu.Lock()
			rm.mu.Lock()
			if len(rm.sockets) > 0 || rm.dirty {
				rm.zeroSweeps = 0
				rm.mu.Unlock()
				h.mu.Unlock()
				continue
			}
			rm.evicted = true
			delete(h.rooms, id)
			rm.mu.Unlock()
			h.mu.Unlock()
			h.registry.Unload(id)
			h.telemetry.recordEviction()
			h.logger.Info().Str("game", id).Msg("evicted idle game")
		}
	}
}

// FlushAll persists every dirty game and flushes all replay logs; used on
// shutdown.
func (h *Hub) FlushAll(ctx context.Context) {
	h.Sweep(ctx)
	if err := h.logs.FlushAll(); err != nil {
		h.logger.Error().Err(err).Msg("replay log flush failed on shutdown")
	}
}

func (h *Hub) persistGame(ctx context.Context, g *game.Game) error {
	var data []byte
	var row StoredGame

	encode := func() error {
		encoded, err := json.Marshal(g.Encode())
		if err != nil {
			return err
		}
		data = encoded
		row = StoredGame{
			ID:            g.ID,
			CreatorUserID: g.CreatorUserID,
			ImageURL:      g.Puzzle.Info.ImageURL,
			CreatedTs:     g.Puzzle.Data.Started,
			FinishedTs:    g.Puzzle.Data.Finished,
			Data:          data,
			Private:       g.Private,
		}
		return nil
	}

	h.mu.Lock()
	rm := h.rooms[g.ID]
	h.mu.Unlock()
	if rm != nil {
		// The dirty mark clears at encode time, inside the lock. An event
		// applied after the snapshot re-dirties the room and survives a
		// clear that would otherwise race it away.
		rm.mu.Lock()
		err := encode()
		if err == nil {
			rm.dirty = false
		}
		rm.mu.Unlock()
		if err != nil {
			return fmt.Errorf("server: encode game %s: %w", g.ID, err)
		}
	} else if err := encode(); err != nil {
		return fmt.Errorf("server: encode game %s: %w", g.ID, err)
	}

	if err := h.storage.SaveGame(ctx, row); err != nil {
		if rm != nil {
			rm.mu.Lock()
			rm.dirty = true
			rm.mu.Unlock()
		}
		return err
	}
	return nil
}

// Diagnostics summarizes the hub state for the diagnostics endpoint.
type Diagnostics struct {
	LoadedGames int               `json:"loadedGames"`
	Sockets     int               `json:"sockets"`
	DirtyGames  int               `json:"dirtyGames"`
	Telemetry   TelemetrySnapshot `json:"telemetry"`
}

// DiagnosticsSnapshot collects current hub counters.
func (h *Hub) DiagnosticsSnapshot() Diagnostics {
	h.mu.Lock()
	rooms := make([]*room, 0, len(h.rooms))
	for _, rm := range h.rooms {
		rooms = append(rooms, rm)
	}
	h.mu.Unlock()

	d := Diagnostics{LoadedGames: len(rooms), Telemetry: h.telemetry.Snapshot()}
	for _, rm := range rooms {
		rm.mu.Lock()
		d.Sockets += len(rm.sockets)
		if rm.dirty {
			d.DirtyGames++
		}
		rm.mu.Unlock()
	}
	return d
}

// RosterEntry is one scoreboard row.
type RosterEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Points int    `json:"points"`
}

// Roster splits the players of a game into currently active ones and idle
// players that still hold points.
type Roster struct {
	Active []RosterEntry `json:"active"`
	Idle   []RosterEntry `json:"idle"`
}

func rosterEntries(players []game.Player) []RosterEntry {
	out := make([]RosterEntry, 0, len(players))
	for _, p := range players {
		out = append(out, RosterEntry{ID: p.ID, Name: p.Name, Color: p.Color, Points: p.Points})
	}
	return out
}

// Roster builds the scoreboard of a game, loading it if necessary.
func (h *Hub) Roster(ctx context.Context, gameID string) (Roster, error) {
	rm, err := h.roomFor(ctx, gameID)
	if err != nil {
		return Roster{}, err
	}
	now := h.nowMs()
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return Roster{
		Active: rosterEntries(rm.g.ActivePlayers(now, idleWindowMs)),
		Idle:   rosterEntries(rm.g.IdlePlayersWithScore(now, idleWindowMs)),
	}, nil
}

// HasReplay reports whether the game can be reconstructed from its log.
func (h *Hub) HasReplay(ctx context.Context, gameID string) bool {
	rm, err := h.roomFor(ctx, gameID)
	if err != nil {
		return false
	}
	rm.mu.Lock()
	version := int(rm.g.GameVersion)
	rm.mu.Unlock()
	return h.logs.HasReplay(gameID, version)
}

// ReadReplay returns raw replay log lines for paginated client transfer.
func (h *Hub) ReadReplay(gameID string, file, offset int) ([][]byte, error) {
	return h.logs.Read(gameID, file, offset)
}
