package wfc

import (
	"math/bits"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// NumVariants is the number of wall/door combinations a tile can take
const NumVariants = 16

// EmptyVariant is the all-wall variant. Cells collapsed to it hold no tile.
const EmptyVariant = NumVariants - 1

// VariantWalls returns the edges of variant v. Bit d of v set means a wall
// in direction d, clear means a door.
func VariantWalls(v int) geom.Walls {
	var w geom.Walls
	for _, dir := range geom.AllDirections() {
		if v&(1<<dir) != 0 {
			w[dir] = geom.Wall
		} else {
			w[dir] = geom.Door
		}
	}
	return w
}

// VariantOf returns the variant with the given edges. Any edge that is not
// a door counts as a wall.
func VariantOf(w geom.Walls) int {
	v := 0
	for _, dir := range geom.AllDirections() {
		if w[dir] != geom.Door {
			v |= 1 << dir
		}
	}
	return v
}

// OptionSet is a bit set of variants still possible for a cell
type OptionSet uint16

// AllOptions contains every variant
const AllOptions OptionSet = 1<<NumVariants - 1

// Has reports whether variant v is in the set
func (o OptionSet) Has(v int) bool {
	return o&(1<<v) != 0
}

// Len returns the number of variants in the set
func (o OptionSet) Len() int {
	return bits.OnesCount16(uint16(o))
}

// Variants lists the set's members in ascending order
func (o OptionSet) Variants() []int {
	out := make([]int, 0, o.Len())
	for v := 0; v < NumVariants; v++ {
		if o.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// Filter keeps the variants for which keep returns true
func (o OptionSet) Filter(keep func(geom.Walls) bool) OptionSet {
	var out OptionSet
	for v := 0; v < NumVariants; v++ {
		if o.Has(v) && keep(VariantWalls(v)) {
			out |= 1 << v
		}
	}
	return out
}

// startOptions are the variants that may hold the start or boss tile
func startOptions() OptionSet {
	return AllOptions.Filter(func(w geom.Walls) bool {
		return w[geom.Up] == geom.Wall && w[geom.Down] == geom.Wall
	}) &^ (1 << EmptyVariant)
}

// Tile is a non-empty cell of a generated floor
type Tile struct {
	Pos   geom.Coord
	Walls geom.Walls
}

// HasDoor returns true if the tile has a door in the given direction
func (t *Tile) HasDoor(dir geom.Direction) bool {
	return t.Walls[dir] == geom.Door
}

// SetDoor opens or closes one edge
func (t *Tile) SetDoor(dir geom.Direction, open bool) {
	if open {
		t.Walls[dir] = geom.Door
	} else {
		t.Walls[dir] = geom.Wall
	}
}
