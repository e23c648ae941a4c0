package wfc

import (
	"context"
	"errors"
	"testing"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

func TestNewSolver(t *testing.T) {
	solver, err := NewSolver(4, 3, 42)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	if len(solver.Grid) != 3 || len(solver.Grid[0]) != 4 {
		t.Fatalf("grid is %dx%d, want 4x3", len(solver.Grid[0]), len(solver.Grid))
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			cell := solver.Grid[y][x]
			for _, v := range cell.Options.Variants() {
				w := VariantWalls(v)
				for _, dir := range geom.AllDirections() {
					if w[dir] == geom.Door && solver.At(cell.Pos.Step(dir)) == nil {
						t.Errorf("cell %v keeps variant %d with a door facing %s off the grid", cell.Pos, v, dir)
					}
				}
			}
		}
	}

	if got := solver.At(geom.Coord{X: 1, Y: 1}).Options; got != AllOptions {
		t.Errorf("interior cell options = %016b, want all", got)
	}
}

func TestNewSolverInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {5, 0}, {MaxSize + 1, 5}, {5, -1}} {
		if _, err := NewSolver(size[0], size[1], 1); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewSolver(%d, %d) = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
}

func TestCellEntropy(t *testing.T) {
	tests := []struct {
		options OptionSet
		want    float64
	}{
		{0, 0},
		{1 << 4, 0},
		{1<<1 | 1<<2, 1},
		{1<<1 | 1<<2 | 1<<3 | 1<<4, 2},
		{AllOptions, 4},
	}
	for _, tt := range tests {
		cell := &Cell{Options: tt.options}
		if got := cell.Entropy(); got != tt.want {
			t.Errorf("Entropy(%016b) = %v, want %v", tt.options, got, tt.want)
		}
	}
}

func TestRestrictPropagates(t *testing.T) {
	solver, err := NewSolver(3, 1, 1)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}

	// A door on the right of the left cell forces a door on the left of
	// the middle one.
	rightDoor := AllOptions.Filter(func(w geom.Walls) bool { return w[geom.Right] == geom.Door })
	if err := solver.Restrict(geom.Coord{X: 0, Y: 0}, rightDoor); err != nil {
		t.Fatalf("Restrict failed: %v", err)
	}
	for _, v := range solver.At(geom.Coord{X: 1, Y: 0}).Options.Variants() {
		if VariantWalls(v)[geom.Left] != geom.Door {
			t.Errorf("middle cell keeps variant %d without a left door", v)
		}
	}

	if err := solver.Restrict(geom.Coord{X: 0, Y: 0}, 1<<EmptyVariant); !errors.Is(err, ErrContradiction) {
		t.Errorf("expected ErrContradiction, got %v", err)
	}
}

func TestSolveDoorsMatch(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		solver, err := NewSolver(8, 6, seed)
		if err != nil {
			t.Fatalf("NewSolver failed: %v", err)
		}
		if err := solver.Solve(context.Background()); err != nil {
			t.Fatalf("seed %d: Solve failed: %v", seed, err)
		}

		for y := 0; y < solver.Height; y++ {
			for x := 0; x < solver.Width; x++ {
				cell := solver.Grid[y][x]
				v := cell.Variant()
				if v < 0 {
					t.Fatalf("seed %d: cell %v not collapsed", seed, cell.Pos)
				}
				for _, dir := range geom.AllDirections() {
					neighbor := solver.At(cell.Pos.Step(dir))
					if neighbor == nil {
						if VariantWalls(v)[dir] == geom.Door {
							t.Errorf("seed %d: %v has a door facing off the grid", seed, cell.Pos)
						}
						continue
					}
					if !solver.Rules.Compatible(v, neighbor.Variant(), dir) {
						t.Errorf("seed %d: %v and %v disagree on their shared edge", seed, cell.Pos, neighbor.Pos)
					}
				}
			}
		}
	}
}

func TestSolveCancelled(t *testing.T) {
	solver, err := NewSolver(5, 5, 1)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := solver.Solve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
