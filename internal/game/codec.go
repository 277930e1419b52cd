package game

import (
	"encoding/json"
	"fmt"

	"jigsaw-party/server/internal/puzzle"
	"jigsaw-party/server/internal/rng"
)

// Wire and storage forms are fixed-position tuples for compactness. They
// exist only at this boundary; nothing in the event processor branches on
// tuple length. The legacy short game form is detected by length here and
// decoded into the same Game struct with defaults for the missing fields.

const (
	gameTupleLenLegacy  = 10
	gameTupleLenCurrent = 15
)

type rngJSON struct {
	Type string    `json:"type"`
	Obj  rng.State `json:"obj"`
}

type dataJSON struct {
	Started  int64 `json:"started"`
	Finished int64 `json:"finished"`
	MaxZ     int   `json:"maxZ"`
	MaxGroup int   `json:"maxGroup"`
}

type infoJSON struct {
	TableWidth           int     `json:"tableWidth"`
	TableHeight          int     `json:"tableHeight"`
	Width                int     `json:"width"`
	Height               int     `json:"height"`
	PieceSize            int     `json:"pieceSize"`
	PieceMarginWidth     int     `json:"pieceMarginWidth"`
	PieceDrawSize        int     `json:"pieceDrawSize"`
	PieceDrawOffset      int     `json:"pieceDrawOffset"`
	SnapDistance         float64 `json:"snapDistance"`
	PieceCount           int     `json:"pieceCount"`
	PieceCountHorizontal int     `json:"pieceCountHorizontal"`
	PieceCountVertical   int     `json:"pieceCountVertical"`
	Shapes               []uint8 `json:"shapes"`
	ImageURL             string  `json:"imageUrl"`
	TargetPieceCount     int     `json:"targetPieceCount"`
}

type puzzleJSON struct {
	Info  infoJSON `json:"info"`
	Data  dataJSON `json:"data"`
	Tiles [][]any  `json:"tiles"`
}

func encodeData(d puzzle.Data) dataJSON {
	return dataJSON{Started: d.Started, Finished: d.Finished, MaxZ: d.MaxZ, MaxGroup: d.MaxGroup}
}

func decodeData(d dataJSON) puzzle.Data {
	return puzzle.Data{Started: d.Started, Finished: d.Finished, MaxZ: d.MaxZ, MaxGroup: d.MaxGroup}
}

func encodeInfo(i puzzle.Info) infoJSON {
	shapes := make([]uint8, len(i.Shapes))
	for n, s := range i.Shapes {
		shapes[n] = uint8(s)
	}
	return infoJSON{
		TableWidth:           i.TableWidth,
		TableHeight:          i.TableHeight,
		Width:                i.Width,
		Height:               i.Height,
		PieceSize:            i.PieceSize,
		PieceMarginWidth:     i.PieceMarginWidth,
		PieceDrawSize:        i.PieceDrawSize,
		PieceDrawOffset:      i.PieceDrawOffset,
		SnapDistance:         i.SnapDistance,
		PieceCount:           i.PieceCount,
		PieceCountHorizontal: i.PieceCountHorizontal,
		PieceCountVertical:   i.PieceCountVertical,
		Shapes:               shapes,
		ImageURL:             i.ImageURL,
		TargetPieceCount:     i.TargetPieceCount,
	}
}

func decodeInfo(i infoJSON) puzzle.Info {
	shapes := make([]puzzle.ShapeCode, len(i.Shapes))
	for n, s := range i.Shapes {
		shapes[n] = puzzle.ShapeCode(s)
	}
	return puzzle.Info{
		TableWidth:           i.TableWidth,
		TableHeight:          i.TableHeight,
		Width:                i.Width,
		Height:               i.Height,
		PieceSize:            i.PieceSize,
		PieceMarginWidth:     i.PieceMarginWidth,
		PieceDrawSize:        i.PieceDrawSize,
		PieceDrawOffset:      i.PieceDrawOffset,
		SnapDistance:         i.SnapDistance,
		PieceCount:           i.PieceCount,
		PieceCountHorizontal: i.PieceCountHorizontal,
		PieceCountVertical:   i.PieceCountVertical,
		Shapes:               shapes,
		ImageURL:             i.ImageURL,
		TargetPieceCount:     i.TargetPieceCount,
	}
}

func encodeOwner(o puzzle.Owner) any {
	switch {
	case o.Finished:
		return -1
	case o.Player != "":
		return o.Player
	default:
		return 0
	}
}

func decodeOwner(raw json.RawMessage) (puzzle.Owner, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n {
		case -1:
			return puzzle.FinishedOwner(), nil
		case 0:
			return puzzle.FreeOwner(), nil
		default:
			return puzzle.Owner{}, fmt.Errorf("owner: unexpected numeric value %d", n)
		}
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return puzzle.Owner{}, fmt.Errorf("owner: %w", err)
	}
	return puzzle.PlayerOwner(id), nil
}

// EncodePiece renders the fixed-position piece tuple.
func EncodePiece(p puzzle.Piece) []any {
	return []any{p.Idx, p.Pos.X, p.Pos.Y, p.Z, encodeOwner(p.Owner), p.Group, p.Rot}
}

// DecodePiece parses a piece tuple. The legacy six-field form (no rotation)
// defaults the rotation to zero.
func DecodePiece(raw []json.RawMessage) (puzzle.Piece, error) {
	if len(raw) < 6 {
		return puzzle.Piece{}, fmt.Errorf("piece: tuple too short (%d)", len(raw))
	}
	var p puzzle.Piece
	if err := json.Unmarshal(raw[0], &p.Idx); err != nil {
		return puzzle.Piece{}, fmt.Errorf("piece idx: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Pos.X); err != nil {
		return puzzle.Piece{}, fmt.Errorf("piece x: %w", err)
	}
	if err := json.Unmarshal(raw[2], &p.Pos.Y); err != nil {
		return puzzle.Piece{}, fmt.Errorf("piece y: %w", err)
	}
	if err := json.Unmarshal(raw[3], &p.Z); err != nil {
		return puzzle.Piece{}, fmt.Errorf("piece z: %w", err)
	}
	owner, err := decodeOwner(raw[4])
	if err != nil {
		return puzzle.Piece{}, err
	}
	p.Owner = owner
	if err := json.Unmarshal(raw[5], &p.Group); err != nil {
		return puzzle.Piece{}, fmt.Errorf("piece group: %w", err)
	}
	if len(raw) >= 7 {
		if err := json.Unmarshal(raw[6], &p.Rot); err != nil {
			return puzzle.Piece{}, fmt.Errorf("piece rot: %w", err)
		}
	}
	return p, nil
}

// EncodePlayer renders the fixed-position player tuple.
func EncodePlayer(p Player) []any {
	mouseDown := 0
	if p.MouseDown {
		mouseDown = 1
	}
	return []any{p.ID, p.X, p.Y, mouseDown, p.Name, p.Color, p.BgColor, p.Points, p.Ts}
}

// DecodePlayer parses a player tuple.
func DecodePlayer(raw []json.RawMessage) (Player, error) {
	if len(raw) < 9 {
		return Player{}, fmt.Errorf("player: tuple too short (%d)", len(raw))
	}
	var p Player
	var mouseDown int
	steps := []struct {
		field any
		name  string
		raw   json.RawMessage
	}{
		{&p.ID, "id", raw[0]},
		{&p.X, "x", raw[1]},
		{&p.Y, "y", raw[2]},
		{&mouseDown, "mouseDown", raw[3]},
		{&p.Name, "name", raw[4]},
		{&p.Color, "color", raw[5]},
		{&p.BgColor, "bgcolor", raw[6]},
		{&p.Points, "points", raw[7]},
		{&p.Ts, "ts", raw[8]},
	}
	for _, s := range steps {
		if err := json.Unmarshal(s.raw, s.field); err != nil {
			return Player{}, fmt.Errorf("player %s: %w", s.name, err)
		}
	}
	p.MouseDown = mouseDown != 0
	return p, nil
}

// Encode renders the storage/wire tuple for the whole game.
func (g *Game) Encode() []any {
	tiles := make([][]any, len(g.Puzzle.Pieces))
	for i, p := range g.Puzzle.Pieces {
		tiles[i] = EncodePiece(p)
	}
	players := make([][]any, len(g.Players))
	for i, p := range g.Players {
		players[i] = EncodePlayer(p)
	}
	private := 0
	if g.Private {
		private = 1
	}
	requireAccount := 0
	if g.RequireAccount {
		requireAccount = 1
	}
	return []any{
		g.ID,
		rngJSON{Type: "Rng", Obj: g.Rng.Serialize()},
		puzzleJSON{Info: encodeInfo(g.Puzzle.Info), Data: encodeData(g.Puzzle.Data), Tiles: tiles},
		players,
		int(g.ScoreMode),
		int(g.ShapeMode),
		int(g.SnapMode),
		g.CreatorUserID,
		private,
		int(g.GameVersion),
		int(g.RotationMode),
		g.RegisteredMap,
		g.Banned,
		g.JoinPassword,
		requireAccount,
	}
}

// Decode parses a stored game tuple, accepting the legacy ten-field form.
func Decode(raw json.RawMessage) (*Game, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("game: not a tuple: %w", err)
	}
	if len(fields) < gameTupleLenLegacy {
		return nil, fmt.Errorf("game: tuple too short (%d)", len(fields))
	}

	g := &Game{
		RegisteredMap: make(map[string]bool),
		Banned:        make(map[string]bool),
	}
	if err := json.Unmarshal(fields[0], &g.ID); err != nil {
		return nil, fmt.Errorf("game id: %w", err)
	}

	var rj rngJSON
	if err := json.Unmarshal(fields[1], &rj); err != nil {
		return nil, fmt.Errorf("game rng: %w", err)
	}
	g.Rng = rng.NewFromState(rj.Obj)

	var pj struct {
		Info  infoJSON            `json:"info"`
		Data  dataJSON            `json:"data"`
		Tiles [][]json.RawMessage `json:"tiles"`
	}
	if err := json.Unmarshal(fields[2], &pj); err != nil {
		return nil, fmt.Errorf("game puzzle: %w", err)
	}
	pieces := make([]puzzle.Piece, len(pj.Tiles))
	for i, t := range pj.Tiles {
		piece, err := DecodePiece(t)
		if err != nil {
			return nil, fmt.Errorf("game tile %d: %w", i, err)
		}
		pieces[i] = piece
	}
	g.Puzzle = puzzle.Puzzle{Pieces: pieces, Data: decodeData(pj.Data), Info: decodeInfo(pj.Info)}

	var playerTuples [][]json.RawMessage
	if err := json.Unmarshal(fields[3], &playerTuples); err != nil {
		return nil, fmt.Errorf("game players: %w", err)
	}
	g.Players = make([]Player, len(playerTuples))
	for i, t := range playerTuples {
		player, err := DecodePlayer(t)
		if err != nil {
			return nil, fmt.Errorf("game player %d: %w", i, err)
		}
		g.Players[i] = player
	}

	var scoreMode, shapeMode, snapMode, private, version int
	if err := json.Unmarshal(fields[4], &scoreMode); err != nil {
		return nil, fmt.Errorf("game scoreMode: %w", err)
	}
	if err := json.Unmarshal(fields[5], &shapeMode); err != nil {
		return nil, fmt.Errorf("game shapeMode: %w", err)
	}
	if err := json.Unmarshal(fields[6], &snapMode); err != nil {
		return nil, fmt.Errorf("game snapMode: %w", err)
	}
	if err := json.Unmarshal(fields[7], &g.CreatorUserID); err != nil {
		return nil, fmt.Errorf("game creator: %w", err)
	}
	if err := json.Unmarshal(fields[8], &private); err != nil {
		return nil, fmt.Errorf("game private: %w", err)
	}
	if err := json.Unmarshal(fields[9], &version); err != nil {
		return nil, fmt.Errorf("game version: %w", err)
	}
	g.ScoreMode = ScoreMode(scoreMode)
	g.ShapeMode = puzzle.ShapeMode(shapeMode)
	g.SnapMode = SnapMode(snapMode)
	g.Private = private != 0
	g.GameVersion = puzzle.GameVersion(version)

	if len(fields) >= gameTupleLenCurrent {
		var rotation, requireAccount int
		if err := json.Unmarshal(fields[10], &rotation); err != nil {
			return nil, fmt.Errorf("game rotationMode: %w", err)
		}
		if err := json.Unmarshal(fields[11], &g.RegisteredMap); err != nil {
			return nil, fmt.Errorf("game registeredMap: %w", err)
		}
		if err := json.Unmarshal(fields[12], &g.Banned); err != nil {
			return nil, fmt.Errorf("game banned: %w", err)
		}
		if err := json.Unmarshal(fields[13], &g.JoinPassword); err != nil {
			return nil, fmt.Errorf("game joinPassword: %w", err)
		}
		if err := json.Unmarshal(fields[14], &requireAccount); err != nil {
			return nil, fmt.Errorf("game requireAccount: %w", err)
		}
		g.RotationMode = puzzle.RotationMode(rotation)
		g.RequireAccount = requireAccount != 0
	}
	if g.RegisteredMap == nil {
		g.RegisteredMap = make(map[string]bool)
	}
	if g.Banned == nil {
		g.Banned = make(map[string]bool)
	}

	g.rules = rulesFor(g.GameVersion)
	return g, nil
}
