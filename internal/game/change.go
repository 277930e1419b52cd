package game

import "jigsaw-party/server/internal/puzzle"

// ChangeKind tags one broadcastable state diff.
type ChangeKind int

const (
	ChangeData ChangeKind = 1
	// ChangePiece carries a snapshot of one piece.
	ChangePiece ChangeKind = 2
	// ChangePlayer carries a snapshot of one player.
	ChangePlayer ChangeKind = 3
	// ChangePlayerSnap signals that the player just connected pieces
	// successfully; clients use it for sound only.
	ChangePlayerSnap ChangeKind = 4
)

// Change is one tagged diff produced by the event processor. Exactly one
// payload field is set for its kind.
type Change struct {
	Kind     ChangeKind
	Data     *puzzle.Data
	Piece    *puzzle.Piece
	Player   *Player
	PlayerID string
}

func dataChange(g *Game) Change {
	d := g.Puzzle.Data
	return Change{Kind: ChangeData, Data: &d}
}

func pieceChange(g *Game, idx int) Change {
	p := *g.Piece(idx)
	return Change{Kind: ChangePiece, Piece: &p}
}

func playerChange(g *Game, id string) Change {
	p, ok := g.Player(id)
	if !ok {
		return Change{Kind: ChangePlayer, Player: &Player{ID: id}}
	}
	snapshot := *p
	return Change{Kind: ChangePlayer, Player: &snapshot}
}

func playerSnapChange(id string) Change {
	return Change{Kind: ChangePlayerSnap, PlayerID: id}
}

// Encode renders the tagged wire tuple for a change.
func (c Change) Encode() []any {
	switch c.Kind {
	case ChangeData:
		return []any{int(ChangeData), encodeData(*c.Data)}
	case ChangePiece:
		return []any{int(ChangePiece), EncodePiece(*c.Piece)}
	case ChangePlayer:
		return []any{int(ChangePlayer), EncodePlayer(*c.Player)}
	case ChangePlayerSnap:
		return []any{int(ChangePlayerSnap), c.PlayerID}
	default:
		return []any{int(c.Kind)}
	}
}

// EncodeChanges renders a change list for broadcast.
func EncodeChanges(changes []Change) []any {
	out := make([]any, len(changes))
	for i, c := range changes {
		out[i] = c.Encode()
	}
	return out
}
