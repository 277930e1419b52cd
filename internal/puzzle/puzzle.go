// Package puzzle holds the immutable puzzle layout model and the seeded
// generator that produces it from an image size and a target piece count.
package puzzle

import "errors"

// ErrInvalidImageDimensions is returned when generation is attempted against
// an image with a zero width or height.
var ErrInvalidImageDimensions = errors.New("puzzle: image has invalid dimensions")

// ErrInvalidTargetCount is returned when generation is attempted with a
// piece count below one.
var ErrInvalidTargetCount = errors.New("puzzle: target piece count must be positive")

// GameVersion selects between historical layout and movement formulas. It is
// fixed when a game is created and never migrated.
type GameVersion int

const (
	// GameVersionLegacy covers games created before the square-table change.
	GameVersionLegacy GameVersion = 1
	// GameVersionCurrent is the format applied to newly created games.
	GameVersionCurrent GameVersion = 2
)

// ShapeMode controls which tab values edge assignment may draw.
type ShapeMode int

const (
	ShapeModeNormal ShapeMode = 0
	ShapeModeAny    ShapeMode = 1
	ShapeModeFlat   ShapeMode = 2
)

// RotationMode controls whether pieces carry a discrete rotation state.
type RotationMode int

const (
	RotationModeNone       RotationMode = 0
	RotationModeOrthogonal RotationMode = 1
)

// Point is a position in world pixels.
type Point struct {
	X float64
	Y float64
}

// Add returns the point translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Owner identifies who holds a piece. The zero value means the piece is
// free. A finished piece is owned by nobody and can never be picked up
// again.
type Owner struct {
	Player   string
	Finished bool
}

// FreeOwner returns the unowned state.
func FreeOwner() Owner { return Owner{} }

// FinishedOwner returns the permanently-finished state.
func FinishedOwner() Owner { return Owner{Finished: true} }

// PlayerOwner returns the state for a piece held by the given player.
func PlayerOwner(id string) Owner { return Owner{Player: id} }

// Free reports whether the piece may be picked up.
func (o Owner) Free() bool { return !o.Finished && o.Player == "" }

// HeldBy reports whether the given player currently holds the piece.
func (o Owner) HeldBy(id string) bool { return !o.Finished && o.Player != "" && o.Player == id }

// Piece is one jigsaw unit. Identity is the fixed array index; everything
// else mutates during play.
type Piece struct {
	Idx   int
	Pos   Point
	Z     int
	Owner Owner
	Group int
	Rot   int
}

// Data is the mutable per-puzzle bookkeeping. MaxZ and MaxGroup only ever
// increase.
type Data struct {
	Started  int64
	Finished int64
	MaxZ     int
	MaxGroup int
}

// Info is immutable after generation.
type Info struct {
	TableWidth  int
	TableHeight int
	// Width and Height are the assembled puzzle's pixel dimensions.
	Width  int
	Height int

	PieceSize        int
	PieceMarginWidth int
	PieceDrawSize    int
	PieceDrawOffset  int
	SnapDistance     float64

	PieceCount           int
	PieceCountHorizontal int
	PieceCountVertical   int

	Shapes []ShapeCode

	ImageURL         string
	TargetPieceCount int
}

// Puzzle is the full generated layout plus its mutable state.
type Puzzle struct {
	Pieces []Piece
	Data   Data
	Info   Info
}

// BoardPos returns the top-left corner of the assembled puzzle's final
// location, centered on the table.
func (i Info) BoardPos() Point {
	return Point{
		X: float64((i.TableWidth - i.Width) / 2),
		Y: float64((i.TableHeight - i.Height) / 2),
	}
}

// FinalPos returns where the piece at idx belongs once assembled.
func (i Info) FinalPos(idx int) Point {
	board := i.BoardPos()
	col := idx % i.PieceCountHorizontal
	row := idx / i.PieceCountHorizontal
	return Point{
		X: board.X + float64(col*i.PieceSize),
		Y: board.Y + float64(row*i.PieceSize),
	}
}

// IsCorner reports whether idx addresses one of the four grid corners.
func (i Info) IsCorner(idx int) bool {
	col := idx % i.PieceCountHorizontal
	row := idx / i.PieceCountHorizontal
	return (col == 0 || col == i.PieceCountHorizontal-1) &&
		(row == 0 || row == i.PieceCountVertical-1)
}

// NeighborIdx returns the grid neighbor of idx offset by (dCol, dRow), or -1
// when the offset walks off the grid.
func (i Info) NeighborIdx(idx, dCol, dRow int) int {
	col := idx%i.PieceCountHorizontal + dCol
	row := idx/i.PieceCountHorizontal + dRow
	if col < 0 || col >= i.PieceCountHorizontal || row < 0 || row >= i.PieceCountVertical {
		return -1
	}
	return row*i.PieceCountHorizontal + col
}
