package puzzle

import (
	"fmt"

	"jigsaw-party/server/internal/rng"
)

// Tab values: -1 is a notch, 0 flat, 1 a bump. Interior edges interlock by
// carrying exact negations on the two adjacent pieces.
type Shape struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// ShapeCode packs a Shape into one byte: four 2-bit fields, each tab value
// shifted by +1 so the field space is 0..2.
type ShapeCode uint8

// EncodeShape packs the four tab values.
func EncodeShape(s Shape) ShapeCode {
	return ShapeCode(uint8(s.Top+1) |
		uint8(s.Right+1)<<2 |
		uint8(s.Bottom+1)<<4 |
		uint8(s.Left+1)<<6)
}

// DecodeShape unpacks a byte code back into tab values.
func DecodeShape(c ShapeCode) Shape {
	return Shape{
		Top:    int(c>>0&0x3) - 1,
		Right:  int(c>>2&0x3) - 1,
		Bottom: int(c>>4&0x3) - 1,
		Left:   int(c>>6&0x3) - 1,
	}
}

func tabValues(mode ShapeMode) []int {
	switch mode {
	case ShapeModeAny:
		return []int{-1, 0, 1}
	case ShapeModeFlat:
		return []int{0}
	default:
		return []int{-1, 1}
	}
}

// determineShapes draws interlocking tabs for the whole grid. Boundary edges
// are always flat; every interior edge's value on one piece is the negation
// of the matching edge on its neighbor.
func determineShapes(r *rng.Rng, countH, countV int, mode ShapeMode) []ShapeCode {
	values := tabValues(mode)
	shapes := make([]Shape, countH*countV)
	for row := 0; row < countV; row++ {
		for col := 0; col < countH; col++ {
			idx := row*countH + col
			s := Shape{}
			if row > 0 {
				s.Top = -shapes[idx-countH].Bottom
			}
			if col > 0 {
				s.Left = -shapes[idx-1].Right
			}
			if col < countH-1 {
				s.Right = rng.Choice(r, values)
			}
			if row < countV-1 {
				s.Bottom = rng.Choice(r, values)
			}
			shapes[idx] = s
		}
	}
	codes := make([]ShapeCode, len(shapes))
	for i, s := range shapes {
		codes[i] = EncodeShape(s)
	}
	return codes
}

func (s Shape) String() string {
	return fmt.Sprintf("shape(t=%d r=%d b=%d l=%d)", s.Top, s.Right, s.Bottom, s.Left)
}
