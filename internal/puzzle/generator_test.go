package puzzle

import (
	"testing"

	"jigsaw-party/server/internal/rng"
)

func TestDeterminePuzzleInfoReferenceImage(t *testing.T) {
	info := DeterminePuzzleInfo(Dim{W: 1706, H: 1000}, 700)

	if info.Width != 2240 {
		t.Fatalf("expected width 2240, got %d", info.Width)
	}
	if info.Height != 1280 {
		t.Fatalf("expected height 1280, got %d", info.Height)
	}
	if info.PieceSize != 64 {
		t.Fatalf("expected piece size 64, got %d", info.PieceSize)
	}
	if info.PieceMarginWidth != 32 {
		t.Fatalf("expected piece margin 32, got %d", info.PieceMarginWidth)
	}
	if info.PieceDrawSize != 128 {
		t.Fatalf("expected piece draw size 128, got %d", info.PieceDrawSize)
	}
	if info.PieceCount != 700 {
		t.Fatalf("expected piece count 700, got %d", info.PieceCount)
	}
	if info.PieceCountHorizontal != 35 {
		t.Fatalf("expected 35 horizontal pieces, got %d", info.PieceCountHorizontal)
	}
	if info.PieceCountVertical != 20 {
		t.Fatalf("expected 20 vertical pieces, got %d", info.PieceCountVertical)
	}
}

func TestDeterminePuzzleInfoSmallestGridAtOrAboveTarget(t *testing.T) {
	cases := []struct {
		dim    Dim
		target int
	}{
		{Dim{W: 1706, H: 1000}, 700},
		{Dim{W: 640, H: 480}, 100},
		{Dim{W: 1920, H: 1080}, 1000},
		{Dim{W: 333, H: 777}, 50},
		{Dim{W: 4000, H: 100}, 200},
	}
	for _, tc := range cases {
		info := DeterminePuzzleInfo(tc.dim, tc.target)
		if info.PieceCount < tc.target {
			t.Fatalf("%+v target %d: grid %dx%d=%d below target",
				tc.dim, tc.target, info.PieceCountHorizontal, info.PieceCountVertical, info.PieceCount)
		}
		if info.PieceCount != info.PieceCountHorizontal*info.PieceCountVertical {
			t.Fatalf("%+v target %d: count %d is not the grid product", tc.dim, tc.target, info.PieceCount)
		}
	}
}

func testGenerate(t *testing.T, opts GenerateOptions, seed uint32) Puzzle {
	t.Helper()
	p, err := Generate(opts, rng.New(seed))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return p
}

func defaultOptions() GenerateOptions {
	return GenerateOptions{
		Image:       Dim{W: 1706, H: 1000},
		ImageURL:    "/uploads/ref.jpg",
		TargetCount: 700,
		ShapeMode:   ShapeModeNormal,
		Version:     GameVersionCurrent,
		Started:     1700000000000,
	}
}

func TestGenerateRejectsZeroDimensions(t *testing.T) {
	opts := defaultOptions()
	opts.Image = Dim{W: 0, H: 1000}
	if _, err := Generate(opts, rng.New(1)); err != ErrInvalidImageDimensions {
		t.Fatalf("expected ErrInvalidImageDimensions, got %v", err)
	}
	opts.Image = Dim{W: 1706, H: 0}
	if _, err := Generate(opts, rng.New(1)); err != ErrInvalidImageDimensions {
		t.Fatalf("expected ErrInvalidImageDimensions, got %v", err)
	}
}

func TestGenerateRejectsNonPositiveTargetCount(t *testing.T) {
	opts := defaultOptions()
	opts.TargetCount = 0
	if _, err := Generate(opts, rng.New(1)); err != ErrInvalidTargetCount {
		t.Fatalf("expected ErrInvalidTargetCount, got %v", err)
	}
	opts.TargetCount = -3
	if _, err := Generate(opts, rng.New(1)); err != ErrInvalidTargetCount {
		t.Fatalf("expected ErrInvalidTargetCount, got %v", err)
	}
	// A single piece is the smallest valid puzzle.
	opts.TargetCount = 1
	if _, err := Generate(opts, rng.New(1)); err != nil {
		t.Fatalf("single-piece generate failed: %v", err)
	}
}

func TestGenerateCountsLineUp(t *testing.T) {
	p := testGenerate(t, defaultOptions(), 77)
	info := p.Info
	if got := info.PieceCountHorizontal * info.PieceCountVertical; got != info.PieceCount {
		t.Fatalf("grid product %d != piece count %d", got, info.PieceCount)
	}
	if len(p.Pieces) != info.PieceCount {
		t.Fatalf("%d pieces for count %d", len(p.Pieces), info.PieceCount)
	}
	if len(info.Shapes) != info.PieceCount {
		t.Fatalf("%d shapes for count %d", len(info.Shapes), info.PieceCount)
	}
}

func TestGenerateShapesInterlock(t *testing.T) {
	for _, mode := range []ShapeMode{ShapeModeNormal, ShapeModeAny, ShapeModeFlat} {
		opts := defaultOptions()
		opts.ShapeMode = mode
		p := testGenerate(t, opts, 4242)
		info := p.Info

		for row := 0; row < info.PieceCountVertical; row++ {
			for col := 0; col < info.PieceCountHorizontal; col++ {
				idx := row*info.PieceCountHorizontal + col
				s := DecodeShape(info.Shapes[idx])

				if row == 0 && s.Top != 0 {
					t.Fatalf("mode %d piece %d: top boundary tab %d", mode, idx, s.Top)
				}
				if row == info.PieceCountVertical-1 && s.Bottom != 0 {
					t.Fatalf("mode %d piece %d: bottom boundary tab %d", mode, idx, s.Bottom)
				}
				if col == 0 && s.Left != 0 {
					t.Fatalf("mode %d piece %d: left boundary tab %d", mode, idx, s.Left)
				}
				if col == info.PieceCountHorizontal-1 && s.Right != 0 {
					t.Fatalf("mode %d piece %d: right boundary tab %d", mode, idx, s.Right)
				}

				if col > 0 {
					left := DecodeShape(info.Shapes[idx-1])
					if s.Left != -left.Right {
						t.Fatalf("mode %d piece %d: left tab %d does not negate neighbor right %d",
							mode, idx, s.Left, left.Right)
					}
				}
				if row > 0 {
					above := DecodeShape(info.Shapes[idx-info.PieceCountHorizontal])
					if s.Top != -above.Bottom {
						t.Fatalf("mode %d piece %d: top tab %d does not negate neighbor bottom %d",
							mode, idx, s.Top, above.Bottom)
					}
				}

				if mode == ShapeModeFlat && (s.Top != 0 || s.Right != 0 || s.Bottom != 0 || s.Left != 0) {
					t.Fatalf("flat mode piece %d has tabs: %v", idx, s)
				}
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := testGenerate(t, defaultOptions(), 90210)
	b := testGenerate(t, defaultOptions(), 90210)

	for i := range a.Pieces {
		if a.Pieces[i] != b.Pieces[i] {
			t.Fatalf("piece %d differs: %+v vs %+v", i, a.Pieces[i], b.Pieces[i])
		}
	}
	for i := range a.Info.Shapes {
		if a.Info.Shapes[i] != b.Info.Shapes[i] {
			t.Fatalf("shape %d differs", i)
		}
	}
}

func TestGenerateScatterAvoidsBoard(t *testing.T) {
	p := testGenerate(t, defaultOptions(), 1)
	info := p.Info
	board := info.BoardPos()
	size := float64(info.PieceSize)
	for _, piece := range p.Pieces {
		overlapsX := piece.Pos.X+size > board.X && piece.Pos.X < board.X+float64(info.Width)
		overlapsY := piece.Pos.Y+size > board.Y && piece.Pos.Y < board.Y+float64(info.Height)
		if overlapsX && overlapsY {
			t.Fatalf("piece %d scattered onto the board at %+v", piece.Idx, piece.Pos)
		}
		if piece.Pos.X < 0 || piece.Pos.Y < 0 ||
			piece.Pos.X+size > float64(info.TableWidth) ||
			piece.Pos.Y+size > float64(info.TableHeight) {
			t.Fatalf("piece %d scattered off the table at %+v", piece.Idx, piece.Pos)
		}
	}
}

func TestTableSizingByVersion(t *testing.T) {
	legacy := defaultOptions()
	legacy.Version = GameVersionLegacy
	p := testGenerate(t, legacy, 7)
	if p.Info.TableWidth != 3*p.Info.Width || p.Info.TableHeight != 3*p.Info.Height {
		t.Fatalf("legacy table %dx%d for puzzle %dx%d",
			p.Info.TableWidth, p.Info.TableHeight, p.Info.Width, p.Info.Height)
	}

	current := testGenerate(t, defaultOptions(), 7)
	want := 6 * current.Info.Width
	if current.Info.Height > current.Info.Width {
		want = 6 * current.Info.Height
	}
	if current.Info.TableWidth != want || current.Info.TableHeight != want {
		t.Fatalf("current table %dx%d, want square %d",
			current.Info.TableWidth, current.Info.TableHeight, want)
	}
}

func TestGenerateRotationModeAssignsRotations(t *testing.T) {
	opts := defaultOptions()
	opts.RotationMode = RotationModeOrthogonal
	a := testGenerate(t, opts, 5)
	b := testGenerate(t, opts, 5)
	varied := false
	for i := range a.Pieces {
		if a.Pieces[i].Rot != b.Pieces[i].Rot {
			t.Fatalf("rotation draw %d not deterministic", i)
		}
		if a.Pieces[i].Rot < 0 || a.Pieces[i].Rot > 3 {
			t.Fatalf("rotation %d out of range for piece %d", a.Pieces[i].Rot, i)
		}
		if a.Pieces[i].Rot != 0 {
			varied = true
		}
	}
	if !varied {
		t.Fatal("expected at least one rotated piece")
	}
}
