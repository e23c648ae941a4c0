// Package geom holds the grid primitives shared by the floor generators.
package geom

import "fmt"

// Coord is a grid-relative position. The origin is the top-left cell.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the component-wise sum of two coordinates
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns the component-wise difference of two coordinates
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y}
}

// Step returns the neighbouring coordinate in the given direction.
// Back and unknown directions return c unchanged.
func (c Coord) Step(dir Direction) Coord {
	switch dir {
	case Right:
		return Coord{X: c.X + 1, Y: c.Y}
	case Up:
		return Coord{X: c.X, Y: c.Y - 1}
	case Left:
		return Coord{X: c.X - 1, Y: c.Y}
	case Down:
		return Coord{X: c.X, Y: c.Y + 1}
	default:
		return c
	}
}

// Manhattan returns the taxicab distance between two coordinates
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// String returns the coordinate as "(x,y)"
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Direction identifies a tile edge. The numeric values are part of the
// catalog and export formats.
type Direction int

const (
	Right Direction = iota
	Up
	Left
	Down
	// Back marks teleporter transitions in exported transition tables.
	Back
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction. Back is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Right:
		return Left
	case Up:
		return Down
	case Left:
		return Right
	case Down:
		return Up
	default:
		return d
	}
}

// Valid reports whether d is one of the four cardinal directions
func (d Direction) Valid() bool {
	return d >= Right && d <= Down
}

// AllDirections returns the four cardinal directions in catalog order
func AllDirections() []Direction {
	return []Direction{Right, Up, Left, Down}
}

// ParseDirection converts a direction name to a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "left":
		return Left, nil
	case "down":
		return Down, nil
	case "back":
		return Back, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// WallKind is the state of a single tile edge
type WallKind int

const (
	NoWall WallKind = iota
	Wall
	Door
)

// String returns the string representation of a WallKind
func (w WallKind) String() string {
	switch w {
	case NoWall:
		return "none"
	case Wall:
		return "wall"
	case Door:
		return "door"
	default:
		return "unknown"
	}
}

// Walls holds the four edges of a tile indexed by Direction
type Walls [4]WallKind

// DoorCount returns the number of edges that are doors
func (w Walls) DoorCount() int {
	count := 0
	for _, k := range w {
		if k == Door {
			count++
		}
	}
	return count
}
