// Package floor places catalog rooms onto a tile grid by growing branches
// from a start tile, then post-processes the result into an export package.
package floor

import (
	"fmt"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// Tile is a placed cell of the grid
type Tile struct {
	Walls    geom.Walls
	RoomID   int
	LayoutID int
	// Offset is the tile's position relative to its room's bounding box.
	Offset geom.Coord
}

// Door is a door edge recorded when a tile was placed
type Door struct {
	Pos geom.Coord
	Dir geom.Direction
}

// Grid is the dense floor being built. Cells are only ever filled.
type Grid struct {
	width, height int
	cells         []*Tile
	doors         []Door
}

// NewGrid creates an empty grid
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]*Tile, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether c lies on the grid
func (g *Grid) InBounds(c geom.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// At returns the tile at c, or nil when the cell is empty or off the grid
func (g *Grid) At(c geom.Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return g.cells[c.Y*g.width+c.X]
}

// Occupied reports whether c holds a tile
func (g *Grid) Occupied(c geom.Coord) bool {
	return g.At(c) != nil
}

// Place stores a tile and records its doors in direction order
func (g *Grid) Place(c geom.Coord, t Tile) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	idx := c.Y*g.width + c.X
	if g.cells[idx] != nil {
		return fmt.Errorf("%w: %v", ErrOccupied, c)
	}
	g.cells[idx] = &t
	for _, dir := range geom.AllDirections() {
		if t.Walls[dir] == geom.Door {
			g.doors = append(g.doors, Door{Pos: c, Dir: dir})
		}
	}
	return nil
}

// Doors returns every recorded door in placement order
func (g *Grid) Doors() []Door {
	return g.doors
}

// Each calls fn for every occupied cell in row-major order
func (g *Grid) Each(fn func(c geom.Coord, t *Tile)) {
	for i, t := range g.cells {
		if t != nil {
			fn(geom.Coord{X: i % g.width, Y: i / g.width}, t)
		}
	}
}

// Count returns the number of occupied cells
func (g *Grid) Count() int {
	n := 0
	for _, t := range g.cells {
		if t != nil {
			n++
		}
	}
	return n
}

// CheckDoors verifies that every recorded door faces a door on an
// occupied neighbour.
func (g *Grid) CheckDoors() error {
	for _, d := range g.doors {
		n := g.At(d.Pos.Step(d.Dir))
		if n == nil || n.Walls[d.Dir.Opposite()] != geom.Door {
			return fmt.Errorf("%w: %v facing %s", ErrDanglingDoor, d.Pos, d.Dir)
		}
	}
	return nil
}
