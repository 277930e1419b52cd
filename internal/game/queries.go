package game

import "jigsaw-party/server/internal/puzzle"

// Rect is an axis-aligned rectangle in world pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// versionRules captures the geometry formulas that changed across game
// format versions. Selected once per game at load time.
type versionRules interface {
	// Bounds is the rectangle pieces must stay inside.
	Bounds(info puzzle.Info) Rect
	// CapExtent returns the effective width and height of a piece used for
	// movement capping.
	CapExtent(info puzzle.Info) (float64, float64)
}

type legacyRules struct{}

func (legacyRules) Bounds(info puzzle.Info) Rect {
	return Rect{W: float64(info.TableWidth), H: float64(info.TableHeight)}
}

func (legacyRules) CapExtent(info puzzle.Info) (float64, float64) {
	s := float64(info.PieceSize)
	return s, s
}

type currentRules struct{}

func (currentRules) Bounds(info puzzle.Info) Rect {
	return Rect{W: float64(info.TableWidth), H: float64(info.TableHeight)}
}

func (currentRules) CapExtent(info puzzle.Info) (float64, float64) {
	s := float64(info.PieceDrawSize + 2*info.PieceDrawOffset)
	return s, s
}

func rulesFor(v puzzle.GameVersion) versionRules {
	if v <= puzzle.GameVersionLegacy {
		return legacyRules{}
	}
	return currentRules{}
}

// Bounds returns the movement bounds for this game's format version.
func (g *Game) Bounds() Rect {
	return g.versionRules().Bounds(g.Puzzle.Info)
}

// ActivePlayers returns the players whose last activity falls within the
// idle window ending at now.
func (g *Game) ActivePlayers(now, window int64) []Player {
	out := make([]Player, 0, len(g.Players))
	for _, p := range g.Players {
		if now-p.Ts <= window {
			out = append(out, p)
		}
	}
	return out
}

// IdlePlayersWithScore returns players outside the idle window who still
// scored points, for scoreboard display.
func (g *Game) IdlePlayersWithScore(now, window int64) []Player {
	out := make([]Player, 0)
	for _, p := range g.Players {
		if now-p.Ts > window && p.Points > 0 {
			out = append(out, p)
		}
	}
	return out
}

// GroupMembers returns the indices of every piece sharing the group of the
// piece at idx. A group of 0 means ungrouped, so only idx itself is
// returned.
func (g *Game) GroupMembers(idx int) []int {
	p := g.Piece(idx)
	if p == nil {
		return nil
	}
	if p.Group == 0 {
		return []int{idx}
	}
	out := make([]int, 0, 4)
	for i := range g.Puzzle.Pieces {
		if g.Puzzle.Pieces[i].Group == p.Group {
			out = append(out, i)
		}
	}
	return out
}

// PieceHeldBy returns the lowest-index piece currently owned by the player,
// or -1 when the player holds nothing.
func (g *Game) PieceHeldBy(playerID string) int {
	for i := range g.Puzzle.Pieces {
		if g.Puzzle.Pieces[i].Owner.HeldBy(playerID) {
			return i
		}
	}
	return -1
}

// FreePieceAt returns the index of the highest-z free piece whose core
// rectangle contains the point, or -1.
func (g *Game) FreePieceAt(pos puzzle.Point) int {
	size := float64(g.Puzzle.Info.PieceSize)
	best := -1
	bestZ := 0
	for i := range g.Puzzle.Pieces {
		p := &g.Puzzle.Pieces[i]
		if !p.Owner.Free() {
			continue
		}
		if pos.X < p.Pos.X || pos.X >= p.Pos.X+size || pos.Y < p.Pos.Y || pos.Y >= p.Pos.Y+size {
			continue
		}
		if best == -1 || p.Z > bestZ {
			best = i
			bestZ = p.Z
		}
	}
	return best
}

// FinishedCount returns how many pieces are permanently placed.
func (g *Game) FinishedCount() int {
	n := 0
	for i := range g.Puzzle.Pieces {
		if g.Puzzle.Pieces[i].Owner.Finished {
			n++
		}
	}
	return n
}
