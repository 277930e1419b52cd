// Package gamelog implements the append-only, sharded replay log. Entries
// are buffered in memory and flushed explicitly so the hot event path never
// touches the disk. Every entry after the header stores its timestamp as a
// delta from the previous entry.
package gamelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultEntriesPerFile is the rotation threshold for new games.
const DefaultEntriesPerFile = 10000

// ErrNoLog is returned for games that were never logged (or whose index was
// deemed unreadable for the rest of the process lifetime).
var ErrNoLog = errors.New("gamelog: no log for game")

// EntryKind tags one log line.
type EntryKind int

const (
	EntryHeader       EntryKind = 1
	EntryAddPlayer    EntryKind = 2
	EntryGameEvent    EntryKind = 3
	EntryUpdatePlayer EntryKind = 4
)

// Header records the creation parameters of a game, enough to regenerate
// the identical puzzle during replay. Modes are plain ints so the log stays
// decoupled from the game model.
type Header struct {
	GameID         string `json:"gameId"`
	ImageW         int    `json:"imageW"`
	ImageH         int    `json:"imageH"`
	ImageURL       string `json:"imageUrl"`
	TargetCount    int    `json:"targetCount"`
	ScoreMode      int    `json:"scoreMode"`
	ShapeMode      int    `json:"shapeMode"`
	SnapMode       int    `json:"snapMode"`
	RotationMode   int    `json:"rotationMode"`
	CreatorUserID  string `json:"creatorUserId"`
	Private        bool   `json:"private"`
	GameVersion    int    `json:"gameVersion"`
	JoinPassword   string `json:"joinPassword,omitempty"`
	RequireAccount bool   `json:"requireAccount,omitempty"`
	Started        int64  `json:"started"`
}

// Entry is one decoded log line. Ts is absolute on the way in; the codec
// converts to and from deltas. PlayerID is set for AddPlayer entries,
// PlayerIdx for UpdatePlayer and GameEvent entries.
type Entry struct {
	Kind      EntryKind
	Header    *Header
	PlayerID  string
	PlayerIdx int
	Input     json.RawMessage
	Ts        int64
}

// Index is the per-game log index record.
type Index struct {
	GameID      string `json:"gameId"`
	Total       int    `json:"total"`
	LastTs      int64  `json:"lastTs"`
	CurrentFile int    `json:"currentFile"`
	PerFile     int    `json:"perFile"`
}

type pendingLine struct {
	file int
	line []byte
}

type gameLog struct {
	idx     Index
	pending []pendingLine
	dirty   bool
}

// Store owns the logs of every game touched during the process lifetime.
type Store struct {
	mu      sync.Mutex
	dir     string
	perFile int
	open    map[string]*gameLog
	broken  map[string]bool
}

// NewStore creates a log store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:     dir,
		perFile: DefaultEntriesPerFile,
		open:    make(map[string]*gameLog),
		broken:  make(map[string]bool),
	}
}

func (s *Store) indexPath(gameID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("log_%s-index.json", gameID))
}

func (s *Store) filePath(gameID string, file int) string {
	return filepath.Join(s.dir, fmt.Sprintf("log_%s-%d.log", gameID, file))
}

// Create starts a fresh log with its header entry. The header keeps an
// absolute timestamp; every later entry is a delta.
func (s *Store) Create(h Header) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gl := &gameLog{
		idx: Index{GameID: h.GameID, PerFile: s.perFile, LastTs: h.Started},
	}
	line, err := encodeLine([]any{int(EntryHeader), h, h.Started})
	if err != nil {
		return fmt.Errorf("gamelog: encode header: %w", err)
	}
	gl.pending = append(gl.pending, pendingLine{file: 0, line: line})
	gl.idx.Total = 1
	gl.dirty = true
	s.open[h.GameID] = gl
	delete(s.broken, h.GameID)
	return nil
}

// Append buffers one entry. The entry's Ts must be absolute; the stored
// line carries the delta from the previous entry.
func (s *Store) Append(gameID string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gl, err := s.loadLocked(gameID)
	if err != nil {
		return err
	}

	delta := e.Ts - gl.idx.LastTs
	var parts []any
	switch e.Kind {
	case EntryAddPlayer:
		parts = []any{int(EntryAddPlayer), e.PlayerID, delta}
	case EntryUpdatePlayer:
		parts = []any{int(EntryUpdatePlayer), e.PlayerIdx, delta}
	case EntryGameEvent:
		parts = []any{int(EntryGameEvent), e.PlayerIdx, e.Input, delta}
	default:
		return fmt.Errorf("gamelog: cannot append entry kind %d", e.Kind)
	}

	line, err := encodeLine(parts)
	if err != nil {
		return fmt.Errorf("gamelog: encode entry: %w", err)
	}

	// Rotation: entry n lands in file n/perFile, so a new file starts
	// exactly when total is a multiple of perFile.
	file := gl.idx.Total / gl.idx.PerFile
	gl.pending = append(gl.pending, pendingLine{file: file, line: line})
	gl.idx.Total++
	gl.idx.LastTs = e.Ts
	gl.idx.CurrentFile = file
	gl.dirty = true
	return nil
}

// loadLocked returns the in-memory log, reading the index from disk on
// first touch. An unreadable index marks the game broken for the rest of
// the process lifetime so live play never retries a failing disk.
func (s *Store) loadLocked(gameID string) (*gameLog, error) {
	if gl, ok := s.open[gameID]; ok {
		return gl, nil
	}
	if s.broken[gameID] {
		return nil, ErrNoLog
	}
	data, err := os.ReadFile(s.indexPath(gameID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLog
		}
		s.broken[gameID] = true
		return nil, fmt.Errorf("gamelog: read index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		s.broken[gameID] = true
		return nil, fmt.Errorf("gamelog: parse index: %w", err)
	}
	gl := &gameLog{idx: idx}
	s.open[gameID] = gl
	return gl, nil
}

// Dirty reports whether the game has unflushed entries.
func (s *Store) Dirty(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	gl, ok := s.open[gameID]
	return ok && gl.dirty
}

// Flush writes all pending lines and the index to durable storage.
func (s *Store) Flush(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gl, ok := s.open[gameID]
	if !ok || !gl.dirty {
		return nil
	}
	return s.flushLocked(gameID, gl)
}

func (s *Store) flushLocked(gameID string, gl *gameLog) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("gamelog: create dir: %w", err)
	}
	i := 0
	for i < len(gl.pending) {
		file := gl.pending[i].file
		var buf bytes.Buffer
		j := i
		for j < len(gl.pending) && gl.pending[j].file == file {
			buf.Write(gl.pending[j].line)
			buf.WriteByte('\n')
			j++
		}
		f, err := os.OpenFile(s.filePath(gameID, file), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("gamelog: open segment %d: %w", file, err)
		}
		_, werr := f.Write(buf.Bytes())
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("gamelog: write segment %d: %w", file, werr)
		}
		if cerr != nil {
			return fmt.Errorf("gamelog: close segment %d: %w", file, cerr)
		}
		i = j
	}
	gl.pending = gl.pending[:0]

	data, err := json.Marshal(gl.idx)
	if err != nil {
		return fmt.Errorf("gamelog: encode index: %w", err)
	}
	if err := os.WriteFile(s.indexPath(gameID), data, 0o644); err != nil {
		return fmt.Errorf("gamelog: write index: %w", err)
	}
	gl.dirty = false
	return nil
}

// FlushAll flushes every open log, returning the first error.
func (s *Store) FlushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for id, gl := range s.open {
		if !gl.dirty {
			continue
		}
		if err := s.flushLocked(id, gl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Unload flushes and drops the in-memory state for a game. Unflushed
// entries are never lost on unload.
func (s *Store) Unload(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gl, ok := s.open[gameID]
	if !ok {
		return nil
	}
	if gl.dirty {
		if err := s.flushLocked(gameID, gl); err != nil {
			return err
		}
	}
	delete(s.open, gameID)
	return nil
}

// Read returns raw log lines from the given file starting at offset, for
// paginated transfer to replaying clients. Pending entries are flushed
// first so readers always see a consistent log.
func (s *Store) Read(gameID string, file, offset int) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gl, err := s.loadLocked(gameID)
	if err != nil {
		return nil, err
	}
	if gl.dirty {
		if err := s.flushLocked(gameID, gl); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(s.filePath(gameID, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("gamelog: read segment %d: %w", file, err)
	}
	lines := splitLines(data)
	if offset >= len(lines) {
		return nil, nil
	}
	return lines[offset:], nil
}

// ReadAll decodes the complete log in order with absolute timestamps
// reconstructed by accumulating deltas. Used for server-side replay.
func (s *Store) ReadAll(gameID string) ([]Entry, error) {
	s.mu.Lock()
	idx, err := func() (Index, error) {
		gl, err := s.loadLocked(gameID)
		if err != nil {
			return Index{}, err
		}
		if gl.dirty {
			if err := s.flushLocked(gameID, gl); err != nil {
				return Index{}, err
			}
		}
		return gl.idx, nil
	}()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, idx.Total)
	lastTs := int64(0)
	for file := 0; file <= idx.CurrentFile; file++ {
		data, err := os.ReadFile(s.filePath(gameID, file))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("gamelog: read segment %d: %w", file, err)
		}
		for _, line := range splitLines(data) {
			e, err := decodeLine(line)
			if err != nil {
				return nil, err
			}
			if e.Kind == EntryHeader {
				lastTs = e.Ts
			} else {
				lastTs += e.Ts
				e.Ts = lastTs
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Exists reports whether a readable log index is present for the game.
func (s *Store) Exists(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.loadLocked(gameID)
	return err == nil
}

// encodeLine renders one entry as a comma-joined array line with the outer
// brackets stripped.
func encodeLine(parts []any) ([]byte, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return nil, err
	}
	return data[1 : len(data)-1], nil
}

// decodeLine parses a bracket-stripped line back into an entry. Timestamps
// stay as stored: absolute for the header, delta otherwise.
func decodeLine(line []byte) (Entry, error) {
	wrapped := make([]byte, 0, len(line)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, line...)
	wrapped = append(wrapped, ']')

	var fields []json.RawMessage
	if err := json.Unmarshal(wrapped, &fields); err != nil {
		return Entry{}, fmt.Errorf("gamelog: malformed line: %w", err)
	}
	if len(fields) < 2 {
		return Entry{}, fmt.Errorf("gamelog: short line (%d fields)", len(fields))
	}
	var kind int
	if err := json.Unmarshal(fields[0], &kind); err != nil {
		return Entry{}, fmt.Errorf("gamelog: bad entry kind: %w", err)
	}

	e := Entry{Kind: EntryKind(kind)}
	switch e.Kind {
	case EntryHeader:
		if len(fields) < 3 {
			return Entry{}, fmt.Errorf("gamelog: short header line")
		}
		var h Header
		if err := json.Unmarshal(fields[1], &h); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad header: %w", err)
		}
		e.Header = &h
		if err := json.Unmarshal(fields[2], &e.Ts); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad header ts: %w", err)
		}
	case EntryAddPlayer:
		if len(fields) < 3 {
			return Entry{}, fmt.Errorf("gamelog: short add-player line")
		}
		if err := json.Unmarshal(fields[1], &e.PlayerID); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad player id: %w", err)
		}
		if err := json.Unmarshal(fields[2], &e.Ts); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad ts: %w", err)
		}
	case EntryUpdatePlayer:
		if len(fields) < 3 {
			return Entry{}, fmt.Errorf("gamelog: short update-player line")
		}
		if err := json.Unmarshal(fields[1], &e.PlayerIdx); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad player idx: %w", err)
		}
		if err := json.Unmarshal(fields[2], &e.Ts); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad ts: %w", err)
		}
	case EntryGameEvent:
		if len(fields) < 4 {
			return Entry{}, fmt.Errorf("gamelog: short game-event line")
		}
		if err := json.Unmarshal(fields[1], &e.PlayerIdx); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad player idx: %w", err)
		}
		e.Input = json.RawMessage(fields[2])
		if err := json.Unmarshal(fields[3], &e.Ts); err != nil {
			return Entry{}, fmt.Errorf("gamelog: bad ts: %w", err)
		}
	default:
		return Entry{}, fmt.Errorf("gamelog: unknown entry kind %d", kind)
	}
	return e, nil
}

func splitLines(data []byte) [][]byte {
	var out [][]byte
	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			if len(bytes.TrimSpace(data)) > 0 {
				out = append(out, data)
			}
			break
		}
		line := data[:nl]
		if len(bytes.TrimSpace(line)) > 0 {
			out = append(out, line)
		}
		data = data[nl+1:]
	}
	return out
}
