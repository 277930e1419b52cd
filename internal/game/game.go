// Package game owns the authoritative in-memory state of active games and
// the event-processing state machine that mutates it.
package game

import (
	"errors"

	"jigsaw-party/server/internal/puzzle"
	"jigsaw-party/server/internal/rng"
)

// ErrGameNotFound covers both missing and unparseable stored games.
var ErrGameNotFound = errors.New("game: not found")

// ScoreMode controls when points are awarded.
type ScoreMode int

const (
	ScoreModeFinal ScoreMode = 0
	ScoreModeAny   ScoreMode = 1
)

// SnapMode controls when a group may snap to its final position.
type SnapMode int

const (
	SnapModeNormal SnapMode = 0
	SnapModeReal   SnapMode = 1
)

// MaxPlayerNameLength bounds display names coming off the wire.
const MaxPlayerNameLength = 16

// Player is one participant. Players are appended the first time they act
// and never removed; liveness is derived from Ts recency.
type Player struct {
	ID        string
	X         float64
	Y         float64
	MouseDown bool
	Name      string
	Color     string
	BgColor   string
	Points    int
	Ts        int64
}

// Game is the complete authoritative state of one session.
type Game struct {
	ID           string
	Rng          *rng.Rng
	Puzzle       puzzle.Puzzle
	Players      []Player
	ScoreMode    ScoreMode
	ShapeMode    puzzle.ShapeMode
	SnapMode     SnapMode
	RotationMode puzzle.RotationMode

	CreatorUserID string
	Private       bool
	GameVersion   puzzle.GameVersion

	// Access-control metadata owned by the auth collaborator but carried on
	// the game value so it persists and syncs with the rest of the state.
	RegisteredMap  map[string]bool
	Banned         map[string]bool
	JoinPassword   string
	RequireAccount bool

	rules versionRules
}

// NewOptions carries creation parameters for a fresh game.
type NewOptions struct {
	ID            string
	Seed          uint32
	Image         puzzle.Dim
	ImageURL      string
	TargetCount   int
	ScoreMode     ScoreMode
	ShapeMode     puzzle.ShapeMode
	SnapMode      SnapMode
	RotationMode  puzzle.RotationMode
	CreatorUserID string
	Private       bool
	GameVersion   puzzle.GameVersion
	JoinPassword  string
	RequireAcct   bool
	Started       int64
}

// New creates a game and generates its puzzle. Generation failures abort
// creation; no partial game is returned.
func New(opts NewOptions) (*Game, error) {
	if opts.GameVersion == 0 {
		opts.GameVersion = puzzle.GameVersionCurrent
	}
	r := rng.New(opts.Seed)
	p, err := puzzle.Generate(puzzle.GenerateOptions{
		Image:        opts.Image,
		ImageURL:     opts.ImageURL,
		TargetCount:  opts.TargetCount,
		ShapeMode:    opts.ShapeMode,
		RotationMode: opts.RotationMode,
		Version:      opts.GameVersion,
		Started:      opts.Started,
	}, r)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:             opts.ID,
		Rng:            r,
		Puzzle:         p,
		Players:        make([]Player, 0, 8),
		ScoreMode:      opts.ScoreMode,
		ShapeMode:      opts.ShapeMode,
		SnapMode:       opts.SnapMode,
		RotationMode:   opts.RotationMode,
		CreatorUserID:  opts.CreatorUserID,
		Private:        opts.Private,
		GameVersion:    opts.GameVersion,
		RegisteredMap:  make(map[string]bool),
		Banned:         make(map[string]bool),
		JoinPassword:   opts.JoinPassword,
		RequireAccount: opts.RequireAcct,
		rules:          rulesFor(opts.GameVersion),
	}, nil
}

// Player returns the player with the given id. Lookups are always by id;
// the slice index is not stable identity.
func (g *Game) Player(id string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// PlayerIdx returns the array position of a player id, or -1.
func (g *Game) PlayerIdx(id string) int {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// AddPlayer appends a new player with default appearance. It returns the
// existing player unchanged when the id is already present.
func (g *Game) AddPlayer(id string, ts int64) *Player {
	if p, ok := g.Player(id); ok {
		return p
	}
	g.Players = append(g.Players, Player{
		ID:      id,
		Name:    "anon",
		Color:   "#ffffff",
		BgColor: "#222222",
		Ts:      ts,
	})
	return &g.Players[len(g.Players)-1]
}

// SetPlayerPos replaces only the cursor position of the player.
func (g *Game) SetPlayerPos(id string, x, y float64) {
	if p, ok := g.Player(id); ok {
		p.X, p.Y = x, y
	}
}

// TouchPlayer updates only the activity timestamp.
func (g *Game) TouchPlayer(id string, ts int64) {
	if p, ok := g.Player(id); ok {
		p.Ts = ts
	}
}

// Piece returns a pointer to the piece at idx, or nil when out of range.
func (g *Game) Piece(idx int) *puzzle.Piece {
	if idx < 0 || idx >= len(g.Puzzle.Pieces) {
		return nil
	}
	return &g.Puzzle.Pieces[idx]
}

// SetPiecePos replaces only the position of one piece.
func (g *Game) SetPiecePos(idx int, pos puzzle.Point) {
	if p := g.Piece(idx); p != nil {
		p.Pos = pos
	}
}

// SetPieceZ replaces only the draw order of one piece.
func (g *Game) SetPieceZ(idx, z int) {
	if p := g.Piece(idx); p != nil {
		p.Z = z
	}
}

// SetPieceOwner replaces only the owner of one piece.
func (g *Game) SetPieceOwner(idx int, owner puzzle.Owner) {
	if p := g.Piece(idx); p != nil {
		p.Owner = owner
	}
}

// SetPieceGroup replaces only the group of one piece.
func (g *Game) SetPieceGroup(idx, group int) {
	if p := g.Piece(idx); p != nil {
		p.Group = group
	}
}

// NextZ bumps and returns the top of the draw order.
func (g *Game) NextZ() int {
	g.Puzzle.Data.MaxZ++
	return g.Puzzle.Data.MaxZ
}

// NextGroup allocates a fresh group id.
func (g *Game) NextGroup() int {
	g.Puzzle.Data.MaxGroup++
	return g.Puzzle.Data.MaxGroup
}

// versionRules selects the historical geometry formulas for a game. It is
// resolved once at creation or decode time, never re-derived per event.
func (g *Game) versionRules() versionRules {
	if g.rules == nil {
		g.rules = rulesFor(g.GameVersion)
	}
	return g.rules
}
