package game

import (
	"math"

	"jigsaw-party/server/internal/puzzle"
)

// Process applies one player input event to the game and returns the diffs
// to broadcast plus side-effect flags: whether anything snapped and whether
// the player dropped pieces. Every input kind is total; unknown kinds
// degrade to a liveness-only update so forward-incompatible clients never
// break the protocol.
//
// Callers must serialize Process invocations per game.
func Process(g *Game, playerID string, in Input, ts int64) ([]Change, bool, bool) {
	player := g.AddPlayer(playerID, ts)
	player.Ts = ts

	changes := make([]Change, 0, 8)
	anySnapped := false
	anyDropped := false

	switch in.Kind {
	case InputMouseDown:
		player.MouseDown = true
		player.X, player.Y = in.X, in.Y
		if idx := g.FreePieceAt(puzzle.Point{X: in.X, Y: in.Y}); idx >= 0 {
			z := g.NextZ()
			for _, m := range g.GroupMembers(idx) {
				pc := g.Piece(m)
				pc.Z = z
				pc.Owner = puzzle.PlayerOwner(playerID)
				changes = append(changes, pieceChange(g, m))
			}
			changes = append(changes, dataChange(g))
		}
		changes = append(changes, playerChange(g, playerID))

	case InputMouseMove:
		held := g.PieceHeldBy(playerID)
		if held < 0 {
			player.X, player.Y = in.X, in.Y
			changes = append(changes, playerChange(g, playerID))
			break
		}
		dx, dy := in.X-player.X, in.Y-player.Y
		moved := movePiecesDiff(g, g.GroupMembers(held), dx, dy)
		player.X, player.Y = in.X, in.Y
		for _, m := range moved {
			changes = append(changes, pieceChange(g, m))
		}
		changes = append(changes, playerChange(g, playerID))

	case InputMove:
		if held := g.PieceHeldBy(playerID); held >= 0 {
			moved := movePiecesDiff(g, g.GroupMembers(held), in.DX, in.DY)
			for _, m := range moved {
				changes = append(changes, pieceChange(g, m))
			}
		}
		// The camera pans with the delta, so the logical cursor shifts the
		// opposite way and a held piece stays under it.
		player.X -= in.DX
		player.Y -= in.DY
		changes = append(changes, playerChange(g, playerID))

	case InputMouseUp:
		player.MouseDown = false
		player.X, player.Y = in.X, in.Y
		if held := g.PieceHeldBy(playerID); held >= 0 {
			anyDropped = true
			members := g.GroupMembers(held)
			for _, m := range members {
				g.Piece(m).Owner = puzzle.FreeOwner()
			}
			affected, snapped := trySnap(g, player, members, ts)
			anySnapped = snapped
			for _, m := range affected {
				changes = append(changes, pieceChange(g, m))
			}
			if snapped {
				changes = append(changes, dataChange(g))
			}
		}
		changes = append(changes, playerChange(g, playerID))

	case InputZoomIn, InputZoomOut:
		player.X, player.Y = in.X, in.Y
		changes = append(changes, playerChange(g, playerID))

	case InputBgColor:
		player.BgColor = in.Value
		changes = append(changes, playerChange(g, playerID))

	case InputPlayerColor:
		player.Color = in.Value
		changes = append(changes, playerChange(g, playerID))

	case InputPlayerName:
		name := in.Value
		if len(name) > MaxPlayerNameLength {
			name = name[:MaxPlayerNameLength]
		}
		player.Name = name
		changes = append(changes, playerChange(g, playerID))

	case InputConnectionClose:
		player.MouseDown = false
		if held := g.PieceHeldBy(playerID); held >= 0 {
			anyDropped = true
			for _, m := range g.GroupMembers(held) {
				g.Piece(m).Owner = puzzle.FreeOwner()
				changes = append(changes, pieceChange(g, m))
			}
		}
		changes = append(changes, playerChange(g, playerID))

	default:
		changes = append(changes, playerChange(g, playerID))
	}

	return changes, anySnapped, anyDropped
}

// trySnap attempts snap-to-final then snap-to-neighbor for the just-released
// group, in that priority order. It returns the indices of every piece that
// changed and whether a snap happened.
func trySnap(g *Game, player *Player, members []int, ts int64) ([]int, bool) {
	if snapToFinal(g, player, members, ts) {
		return members, true
	}
	if affected, ok := snapToNeighbor(g, player, members, ts); ok {
		return affected, true
	}
	return members, false
}

// maySnapToFinal gates direct final placement: REAL snap mode demands that
// the group reaches the border first via a corner piece.
func maySnapToFinal(g *Game, members []int) bool {
	if g.SnapMode != SnapModeReal {
		return true
	}
	for _, m := range members {
		if g.Puzzle.Info.IsCorner(m) {
			return true
		}
	}
	return false
}

func snapToFinal(g *Game, player *Player, members []int, ts int64) bool {
	if !maySnapToFinal(g, members) {
		return false
	}
	info := g.Puzzle.Info
	ref := g.Piece(members[0])
	fin := info.FinalPos(ref.Idx)
	if dist(ref.Pos, fin) >= info.SnapDistance {
		return false
	}

	dx, dy := fin.X-ref.Pos.X, fin.Y-ref.Pos.Y
	for _, m := range members {
		pc := g.Piece(m)
		pc.Pos = pc.Pos.Add(dx, dy)
		pc.Owner = puzzle.FinishedOwner()
		pc.Z = 1
	}

	// Direct final placement always scores: one point per newly finished
	// piece in FINAL mode, a flat point otherwise.
	if g.ScoreMode == ScoreModeFinal {
		player.Points += len(members)
	} else {
		player.Points++
	}

	if g.FinishedCount() == len(g.Puzzle.Pieces) {
		g.Puzzle.Data.Finished = ts
	}
	return true
}

func snapToNeighbor(g *Game, player *Player, members []int, ts int64) ([]int, bool) {
	info := g.Puzzle.Info
	size := float64(info.PieceSize)
	inGroup := make(map[int]bool, len(members))
	for _, m := range members {
		inGroup[m] = true
	}

	// Fixed priority order: top, right, bottom, left.
	offsets := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

	for _, m := range members {
		p := g.Piece(m)
		for _, off := range offsets {
			nIdx := info.NeighborIdx(m, off[0], off[1])
			if nIdx < 0 || inGroup[nIdx] {
				continue
			}
			n := g.Piece(nIdx)
			// A piece another player is still holding may not be merged with;
			// only free or finished neighbors are snap targets. Merging with a
			// held piece would put two owners in one group.
			if n.Owner.Player != "" {
				continue
			}
			target := puzzle.Point{
				X: p.Pos.X + float64(off[0])*size,
				Y: p.Pos.Y + float64(off[1])*size,
			}
			if dist(n.Pos, target) >= info.SnapDistance {
				continue
			}

			// Align the dragged group exactly with the neighbor.
			dx, dy := n.Pos.X-target.X, n.Pos.Y-target.Y
			for _, dm := range members {
				pc := g.Piece(dm)
				pc.Pos = pc.Pos.Add(dx, dy)
			}

			neighborFinished := n.Owner.Finished
			groupPieces(g, m, nIdx)
			merged := g.GroupMembers(m)

			if neighborFinished {
				for _, gm := range merged {
					pc := g.Piece(gm)
					pc.Owner = puzzle.FinishedOwner()
					pc.Z = 1
				}
			} else {
				maxZ := 0
				for _, gm := range merged {
					if z := g.Piece(gm).Z; z > maxZ {
						maxZ = z
					}
				}
				for _, gm := range merged {
					g.Piece(gm).Z = maxZ
				}
			}

			switch {
			case g.ScoreMode == ScoreModeAny:
				player.Points++
			case g.ScoreMode == ScoreModeFinal && neighborFinished:
				player.Points += len(merged)
			}

			if g.FinishedCount() == len(g.Puzzle.Pieces) {
				g.Puzzle.Data.Finished = ts
			}
			return merged, true
		}
	}
	return nil, false
}

// groupPieces merges the groups of two pieces. Every piece in the store
// carrying either original group id is reassigned, which keeps merges
// transitive across previously separate chains.
func groupPieces(g *Game, a, b int) int {
	pa, pb := g.Piece(a), g.Piece(b)
	oldA, oldB := pa.Group, pb.Group

	var target int
	switch {
	case oldA != 0:
		target = oldA
	case oldB != 0:
		target = oldB
	default:
		target = g.NextGroup()
	}

	for i := range g.Puzzle.Pieces {
		pc := &g.Puzzle.Pieces[i]
		if (oldA != 0 && pc.Group == oldA) || (oldB != 0 && pc.Group == oldB) {
			pc.Group = target
		}
	}
	pa.Group = target
	pb.Group = target
	return target
}

// movePiecesDiff translates the piece set by the delta, capped so every
// piece's draw rectangle stays within the bounds rectangle. The same capped
// delta applies to every piece, preserving relative offsets. A fully capped
// move returns nil and mutates nothing.
func movePiecesDiff(g *Game, members []int, dx, dy float64) []int {
	bounds := g.Bounds()
	capW, capH := g.versionRules().CapExtent(g.Puzzle.Info)

	cdx, cdy := dx, dy
	for _, m := range members {
		p := g.Piece(m)
		if cdx > 0 {
			if room := bounds.X + bounds.W - (p.Pos.X + capW); room < cdx {
				cdx = math.Max(room, 0)
			}
		} else if cdx < 0 {
			if room := bounds.X - p.Pos.X; room > cdx {
				cdx = math.Min(room, 0)
			}
		}
		if cdy > 0 {
			if room := bounds.Y + bounds.H - (p.Pos.Y + capH); room < cdy {
				cdy = math.Max(room, 0)
			}
		} else if cdy < 0 {
			if room := bounds.Y - p.Pos.Y; room > cdy {
				cdy = math.Min(room, 0)
			}
		}
	}

	if cdx == 0 && cdy == 0 {
		return nil
	}
	for _, m := range members {
		p := g.Piece(m)
		p.Pos = p.Pos.Add(cdx, cdy)
	}
	return members
}

func dist(a, b puzzle.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
