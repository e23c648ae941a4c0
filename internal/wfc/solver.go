package wfc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

var (
	ErrContradiction = errors.New("wfc: contradiction - no valid tiles for cell")
	ErrInvalidSize   = errors.New("wfc: invalid grid size")
	ErrNoSolution    = errors.New("wfc: failed to find valid solution")
	ErrNotConnected  = errors.New("wfc: generated layout is not fully connected")
	ErrNoBossTile    = errors.New("wfc: no tile can hold the boss")
)

// Cell represents a single cell in the WFC grid during solving
type Cell struct {
	Pos       geom.Coord
	Options   OptionSet
	Collapsed bool
}

// Entropy returns the Shannon entropy of a uniform choice over the cell's
// remaining options.
func (c *Cell) Entropy() float64 {
	n := c.Options.Len()
	if n <= 1 {
		return 0
	}
	return math.Log2(float64(n))
}

// Variant returns the collapsed variant, or -1 while undecided
func (c *Cell) Variant() int {
	if !c.Collapsed || c.Options.Len() != 1 {
		return -1
	}
	return c.Options.Variants()[0]
}

// Solver implements the Wave Function Collapse algorithm over wall/door
// tile variants.
type Solver struct {
	Width, Height int
	Grid          [][]*Cell
	Rules         *Rules
	rng           *rand.Rand
}

// NewSolver creates a solver whose border cells already exclude variants
// with a door facing off the grid.
func NewSolver(width, height int, seed int64) (*Solver, error) {
	if width < 1 || height < 1 || width > MaxSize || height > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	s := &Solver{
		Width:  width,
		Height: height,
		Rules:  DefaultRules(),
		rng:    rand.New(rand.NewSource(seed)),
	}
	s.initializeGrid()
	return s, nil
}

func (s *Solver) initializeGrid() {
	s.Grid = make([][]*Cell, s.Height)
	for y := 0; y < s.Height; y++ {
		s.Grid[y] = make([]*Cell, s.Width)
		for x := 0; x < s.Width; x++ {
			pos := geom.Coord{X: x, Y: y}
			opts := AllOptions
			for _, dir := range geom.AllDirections() {
				if !s.inBounds(pos.Step(dir)) {
					opts = opts.Filter(func(w geom.Walls) bool { return w[dir] != geom.Door })
				}
			}
			s.Grid[y][x] = &Cell{Pos: pos, Options: opts}
		}
	}
}

func (s *Solver) inBounds(c geom.Coord) bool {
	return c.X >= 0 && c.X < s.Width && c.Y >= 0 && c.Y < s.Height
}

// At returns the cell at c, or nil off the grid
func (s *Solver) At(c geom.Coord) *Cell {
	if !s.inBounds(c) {
		return nil
	}
	return s.Grid[c.Y][c.X]
}

// Restrict narrows a cell to the given options and propagates the change
func (s *Solver) Restrict(c geom.Coord, opts OptionSet) error {
	cell := s.At(c)
	if cell == nil {
		return fmt.Errorf("%w: %v is off the grid", ErrInvalidSize, c)
	}
	narrowed := cell.Options & opts
	if narrowed == 0 {
		return fmt.Errorf("%w: %v", ErrContradiction, c)
	}
	if narrowed == cell.Options {
		return nil
	}
	cell.Options = narrowed
	return s.propagate(cell)
}

// Collapse fixes a cell to one of its remaining options at random and
// propagates the result.
func (s *Solver) Collapse(c geom.Coord) error {
	cell := s.At(c)
	if cell == nil {
		return fmt.Errorf("%w: %v is off the grid", ErrInvalidSize, c)
	}
	options := cell.Options.Variants()
	if len(options) == 0 {
		return fmt.Errorf("%w: %v", ErrContradiction, c)
	}

	v := options[s.rng.Intn(len(options))]
	cell.Collapsed = true
	if cell.Options == 1<<v {
		return nil
	}
	cell.Options = 1 << v
	return s.propagate(cell)
}

// propagate removes unsupported options from neighbours until nothing
// changes.
func (s *Solver) propagate(from *Cell) error {
	queue := []*Cell{from}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]

		for _, dir := range geom.AllDirections() {
			neighbor := s.At(cell.Pos.Step(dir))
			if neighbor == nil {
				continue
			}
			allowed := neighbor.Options & s.Rules.Support(cell.Options, dir)
			if allowed == neighbor.Options {
				continue
			}
			if allowed == 0 {
				return fmt.Errorf("%w: %v", ErrContradiction, neighbor.Pos)
			}
			neighbor.Options = allowed
			queue = append(queue, neighbor)
		}
	}
	return nil
}

// lowestEntropy returns the uncollapsed cell with the fewest options,
// the first in scan order on ties.
func (s *Solver) lowestEntropy() *Cell {
	var best *Cell
	bestEntropy := math.Inf(1)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			cell := s.Grid[y][x]
			if cell.Collapsed {
				continue
			}
			if e := cell.Entropy(); e < bestEntropy {
				best, bestEntropy = cell, e
			}
		}
	}
	return best
}

// Solve collapses cells until none remain undecided
func (s *Solver) Solve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell := s.lowestEntropy()
		if cell == nil {
			return nil
		}
		if err := s.Collapse(cell.Pos); err != nil {
			return err
		}
	}
}

// Tiles returns the non-empty collapsed cells in scan order
func (s *Solver) Tiles() []*Tile {
	var tiles []*Tile
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			v := s.Grid[y][x].Variant()
			if v < 0 || v == EmptyVariant {
				continue
			}
			tiles = append(tiles, &Tile{Pos: geom.Coord{X: x, Y: y}, Walls: VariantWalls(v)})
		}
	}
	return tiles
}
