package puzzle

import (
	"math"

	"jigsaw-party/server/internal/rng"
)

const (
	pieceSize = 64
	// tableScaleLegacy multiplies each puzzle dimension separately.
	tableScaleLegacy = 3
	// tableScaleCurrent sizes a single square table from the larger dimension.
	tableScaleCurrent = 6
)

// Dim is an image size in pixels.
type Dim struct {
	W int
	H int
}

// GenerateOptions carries everything puzzle generation depends on besides
// the generator itself.
type GenerateOptions struct {
	Image        Dim
	ImageURL     string
	TargetCount  int
	ShapeMode    ShapeMode
	RotationMode RotationMode
	Version      GameVersion
	Started      int64
}

// DeterminePuzzleInfo computes the piece grid for an image size and a target
// piece count. The result is deterministic and consumes no randomness: the
// grid is the smallest one at or above the target count.
func DeterminePuzzleInfo(image Dim, targetCount int) Info {
	size := determineGridCellSize(image.W, image.H, targetCount)
	countH := divCeil(image.W, size)
	countV := divCeil(image.H, size)

	margin := pieceSize / 2
	return Info{
		Width:                countH * pieceSize,
		Height:               countV * pieceSize,
		PieceSize:            pieceSize,
		PieceMarginWidth:     margin,
		PieceDrawSize:        pieceSize + 2*margin,
		PieceDrawOffset:      -margin,
		SnapDistance:         float64(pieceSize) / 2,
		PieceCount:           countH * countV,
		PieceCountHorizontal: countH,
		PieceCountVertical:   countV,
		TargetPieceCount:     targetCount,
	}
}

// determineGridCellSize finds the largest cell size whose grid still covers
// the target count. Seeded from the area estimate, refined with halving
// steps, with the final unit step landing exactly on the boundary.
func determineGridCellSize(w, h, target int) int {
	// A cell larger than the image never changes the grid, so the search
	// space is bounded; beyond it gridCount stays at 1 and the refinement
	// would never stop for target 1.
	maxSize := w
	if h > maxSize {
		maxSize = h
	}
	size := int(math.Sqrt(float64(w*h) / float64(target)))
	if size < 1 {
		size = 1
	}
	if size > maxSize {
		size = maxSize
	}
	for size > 1 && gridCount(w, h, size) < target {
		size--
	}
	for step := 1 << 10; step >= 1; step >>= 1 {
		for size+step <= maxSize && gridCount(w, h, size+step) >= target {
			size += step
		}
	}
	return size
}

func gridCount(w, h, size int) int {
	return divCeil(w, size) * divCeil(h, size)
}

func divCeil(a, b int) int {
	return (a + b - 1) / b
}

func tableDim(version GameVersion, puzzleW, puzzleH int) (int, int) {
	if version <= GameVersionLegacy {
		return tableScaleLegacy * puzzleW, tableScaleLegacy * puzzleH
	}
	side := puzzleW
	if puzzleH > side {
		side = puzzleH
	}
	return tableScaleCurrent * side, tableScaleCurrent * side
}

// Generate produces the complete puzzle: grid, interlocking shapes, scatter
// layout and table geometry. The same options and rng state always produce
// the same puzzle.
func Generate(opts GenerateOptions, r *rng.Rng) (Puzzle, error) {
	if opts.Image.W <= 0 || opts.Image.H <= 0 {
		return Puzzle{}, ErrInvalidImageDimensions
	}
	if opts.TargetCount < 1 {
		return Puzzle{}, ErrInvalidTargetCount
	}

	info := DeterminePuzzleInfo(opts.Image, opts.TargetCount)
	info.TableWidth, info.TableHeight = tableDim(opts.Version, info.Width, info.Height)
	info.ImageURL = opts.ImageURL
	info.Shapes = determineShapes(r, info.PieceCountHorizontal, info.PieceCountVertical, opts.ShapeMode)

	slots := scatterSlots(info, info.PieceCount)
	order := make([]int, info.PieceCount)
	for i := range order {
		order[i] = i
	}
	order = rng.Shuffle(r, order)

	pieces := make([]Piece, info.PieceCount)
	for i := range pieces {
		pieces[i] = Piece{Idx: i, Pos: slots[order[i]]}
	}
	if opts.RotationMode == RotationModeOrthogonal {
		for i := range pieces {
			pieces[i].Rot = r.Random(0, 3)
		}
	}

	return Puzzle{
		Pieces: pieces,
		Data:   Data{Started: opts.Started},
		Info:   info,
	}, nil
}

// scatterSlots walks an expanding square spiral around the table center and
// keeps the first n slots that sit fully on the table but clear of the
// board, so pieces start clustered near their destination without covering
// it.
func scatterSlots(info Info, n int) []Point {
	center := Point{
		X: float64(info.TableWidth)/2 - float64(info.PieceSize)/2,
		Y: float64(info.TableHeight)/2 - float64(info.PieceSize)/2,
	}
	spacing := float64(info.PieceDrawSize)
	board := info.BoardPos()

	slots := make([]Point, 0, n)
	x, y := 0, 0
	dx, dy := 1, 0
	leg, run, turns := 1, 0, 0
	candidates := 0
	maxCandidates := n*64 + 1024

	for len(slots) < n {
		pos := Point{X: center.X + float64(x)*spacing, Y: center.Y + float64(y)*spacing}
		candidates++
		if candidates > maxCandidates {
			// Degenerate geometry; fall back to clamped placement so
			// generation still terminates.
			pos = clampToTable(info, pos)
			slots = append(slots, pos)
		} else if onTable(info, pos) && !overlapsBoard(info, board, pos) {
			slots = append(slots, pos)
		}

		x += dx
		y += dy
		run++
		if run == leg {
			run = 0
			dx, dy = -dy, dx
			turns++
			if turns%2 == 0 {
				leg++
			}
		}
	}
	return slots
}

func onTable(info Info, pos Point) bool {
	return pos.X >= 0 && pos.Y >= 0 &&
		pos.X+float64(info.PieceSize) <= float64(info.TableWidth) &&
		pos.Y+float64(info.PieceSize) <= float64(info.TableHeight)
}

func overlapsBoard(info Info, board Point, pos Point) bool {
	size := float64(info.PieceSize)
	return pos.X+size > board.X && pos.X < board.X+float64(info.Width) &&
		pos.Y+size > board.Y && pos.Y < board.Y+float64(info.Height)
}

func clampToTable(info Info, pos Point) Point {
	max := Point{
		X: float64(info.TableWidth - info.PieceSize),
		Y: float64(info.TableHeight - info.PieceSize),
	}
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	if pos.X > max.X {
		pos.X = max.X
	}
	if pos.Y > max.Y {
		pos.Y = max.Y
	}
	return pos
}
