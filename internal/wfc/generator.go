package wfc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/floorforge/internal/geom"
	"github.com/lawnchairsociety/floorforge/internal/logger"
	"github.com/lawnchairsociety/floorforge/internal/mapfmt"
)

// MaxSize is the largest square the level editor can display
const MaxSize = 57

// DefaultMaxRetries bounds how often a contradicted or unrepairable grid is
// regenerated.
const DefaultMaxRetries = 50

// Config contains parameters for WFC floor generation
type Config struct {
	Width, Height int
	Seed          int64
	MaxRetries    int
	Logger        *slog.Logger
}

// DefaultConfig returns a square floor of the given size
func DefaultConfig(size int, seed int64) Config {
	return Config{
		Width:      size,
		Height:     size,
		Seed:       seed,
		MaxRetries: DefaultMaxRetries,
	}
}

// Floor is a generated, fully connected WFC floor
type Floor struct {
	Width, Height int
	Seed          int64
	Attempt       int
	Tiles         []*Tile
	Start         geom.Coord
	Boss          geom.Coord
}

// Generator handles floor generation with retries
type Generator struct {
	config Config
	log    *slog.Logger
}

// NewGenerator creates a new WFC floor generator
func NewGenerator(config Config) *Generator {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	log := config.Logger
	if log == nil {
		log = logger.Logger()
	}
	return &Generator{config: config, log: log.With("generator", "wfc")}
}

// Generate creates a floor layout. Attempt n runs with seed + n*1000.
func (g *Generator) Generate(ctx context.Context) (*Floor, error) {
	var lastErr error
	for attempt := 0; attempt < g.config.MaxRetries; attempt++ {
		seed := g.config.Seed + int64(attempt*1000)
		floor, err := g.attempt(ctx, seed)
		if err == nil {
			floor.Attempt = attempt
			g.log.Info("wfc floor generated", "attempt", attempt, "tiles", len(floor.Tiles))
			return floor, nil
		}
		if errors.Is(err, ErrInvalidSize) || ctx.Err() != nil {
			return nil, err
		}
		g.log.Info("wfc attempt failed", "attempt", attempt, "seed", seed, "error", err)
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrNoSolution, g.config.MaxRetries, lastErr)
	}
	return nil, ErrNoSolution
}

func (g *Generator) attempt(ctx context.Context, seed int64) (*Floor, error) {
	solver, err := NewSolver(g.config.Width, g.config.Height, seed)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed ^ 0x5eed))

	start := geom.Coord{X: rng.Intn(g.config.Width), Y: rng.Intn(g.config.Height)}
	if err := solver.Restrict(start, startOptions()); err != nil {
		return nil, err
	}
	if err := solver.Collapse(start); err != nil {
		return nil, err
	}
	if err := solver.Solve(ctx); err != nil {
		return nil, err
	}

	floor := &Floor{
		Width:  g.config.Width,
		Height: g.config.Height,
		Seed:   seed,
		Tiles:  solver.Tiles(),
		Start:  start,
	}

	boss, err := pickBoss(floor.Tiles, start, rng)
	if err != nil {
		return nil, err
	}
	floor.Boss = boss

	if err := Connect(floor.Tiles, start, boss); err != nil {
		return nil, err
	}
	return floor, nil
}

// pickBoss chooses a random tile other than the start with walls up and down
func pickBoss(tiles []*Tile, start geom.Coord, rng *rand.Rand) (geom.Coord, error) {
	var candidates []geom.Coord
	for _, t := range tiles {
		if t.Pos != start && t.Walls[geom.Up] == geom.Wall && t.Walls[geom.Down] == geom.Wall {
			candidates = append(candidates, t.Pos)
		}
	}
	if len(candidates) == 0 {
		return geom.Coord{}, ErrNoBossTile
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Connect joins isolated areas to the start tile's area by opening door
// pairs between neighbouring tiles. Neither the start nor the boss tile
// gains a door.
func Connect(tiles []*Tile, start, boss geom.Coord) error {
	byPos := make(map[geom.Coord]*Tile, len(tiles))
	for _, t := range tiles {
		byPos[t.Pos] = t
	}
	if _, ok := byPos[start]; !ok {
		return fmt.Errorf("%w: start %v holds no tile", ErrNotConnected, start)
	}

	for {
		group, order := floodFill(byPos, start)
		if group.Size() == len(tiles) {
			return nil
		}
		if !bridge(byPos, group, order, start, boss) {
			return fmt.Errorf("%w: %d of %d tiles reachable", ErrNotConnected, group.Size(), len(tiles))
		}
	}
}

// floodFill returns the tiles reachable from start through doors and the
// order they were reached in.
func floodFill(byPos map[geom.Coord]*Tile, start geom.Coord) (mapset.Set[geom.Coord], []*Tile) {
	seen := mapset.New[geom.Coord]()
	seen.Put(start)
	order := []*Tile{byPos[start]}

	for i := 0; i < len(order); i++ {
		t := order[i]
		for _, dir := range geom.AllDirections() {
			if !t.HasDoor(dir) {
				continue
			}
			next, ok := byPos[t.Pos.Step(dir)]
			if !ok || seen.Has(next.Pos) {
				continue
			}
			seen.Put(next.Pos)
			order = append(order, next)
		}
	}
	return seen, order
}

// bridge opens the first door found between the group and an outside tile
func bridge(byPos map[geom.Coord]*Tile, group mapset.Set[geom.Coord], order []*Tile, start, boss geom.Coord) bool {
	reserved := func(c geom.Coord) bool { return c == start || c == boss }

	for _, t := range order {
		if reserved(t.Pos) {
			continue
		}
		for _, dir := range []geom.Direction{geom.Left, geom.Up, geom.Right, geom.Down} {
			other, ok := byPos[t.Pos.Step(dir)]
			if !ok || group.Has(other.Pos) || reserved(other.Pos) {
				continue
			}
			t.SetDoor(dir, true)
			other.SetDoor(dir.Opposite(), true)
			return true
		}
	}
	return false
}

// Cells converts the floor to level-editor cells keyed by grid position
func (f *Floor) Cells() map[geom.Coord]mapfmt.Cell {
	out := make(map[geom.Coord]mapfmt.Cell, len(f.Tiles))
	for _, t := range f.Tiles {
		cell := mapfmt.Cell{Walls: t.Walls, Color: mapfmt.ColorNormal}
		if t.Pos == f.Start {
			cell.Special = mapfmt.SpecialStart
		}
		if t.Pos == f.Boss {
			cell.Color = mapfmt.ColorBoss
		}
		out[t.Pos] = cell
	}
	return out
}

// MapData encodes the floor in the level editor's map format
func (f *Floor) MapData() *mapfmt.MapData {
	md := mapfmt.NewMapData(f.Width, f.Height)
	for pos, cell := range f.Cells() {
		md.Set(pos, cell)
	}
	return md
}

// EditorTiles returns the floor as level-editor tiles in scan order
func (f *Floor) EditorTiles() []mapfmt.EditorTile {
	cells := f.Cells()
	out := make([]mapfmt.EditorTile, 0, len(f.Tiles))
	for _, t := range f.Tiles {
		out = append(out, cells[t.Pos].EditorTile(t.Pos))
	}
	return out
}
