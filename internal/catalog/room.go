package catalog

import (
	"sort"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// BoundingBox is a room's extent in its local coordinate space. Size is
// the span between the first and last tile, so Origin+Size is the far
// corner and a single tile has a zero size.
type BoundingBox struct {
	Origin geom.Coord
	Size   geom.Coord
}

// LayoutTile is one tile of a room definition
type LayoutTile struct {
	Local       geom.Coord
	Walls       geom.Walls
	CanHoldItem bool
	// Lock gates item placement on this tile.
	Lock access.Lock
}

// Room is a pre-authored multi-tile layout from the catalog
type Room struct {
	// Index is the room's position in the catalog's room list.
	Index int
	ID    int

	// Lock gates the whole room. A room whose lock is closed is never a
	// candidate.
	Lock access.Lock

	Weight     float64
	Scaling    float64
	ScalingMin int
	// ScalingMax of -1 means weight keeps growing with depth.
	ScalingMax int

	Tiles       []LayoutTile
	DoorTiles   [4][]geom.Coord
	BoundingBox BoundingBox
	IsDeadEnd   bool

	tileIndex map[geom.Coord]int
}

// Tile returns the layout tile at a local coordinate
func (r *Room) Tile(local geom.Coord) (LayoutTile, bool) {
	if r.tileIndex == nil {
		for _, t := range r.Tiles {
			if t.Local == local {
				return t, true
			}
		}
		return LayoutTile{}, false
	}
	i, ok := r.tileIndex[local]
	if !ok {
		return LayoutTile{}, false
	}
	return r.Tiles[i], true
}

// HasDoor reports whether any tile has a door facing dir
func (r *Room) HasDoor(dir geom.Direction) bool {
	if !dir.Valid() {
		return false
	}
	return len(r.DoorTiles[dir]) > 0
}

// DoorCount returns the number of door edges across all tiles
func (r *Room) DoorCount() int {
	count := 0
	for _, t := range r.Tiles {
		count += t.Walls.DoorCount()
	}
	return count
}

// WeightAt returns the room's selection weight at a placement depth.
// Below ScalingMin the scaling term is zero; between min and max it grows
// with depth; past ScalingMax it is capped.
func (r *Room) WeightAt(depth int) float64 {
	var scale float64
	switch {
	case depth < r.ScalingMin:
		scale = 0
	case r.ScalingMax == -1 || depth < r.ScalingMax:
		scale = float64(depth)
	default:
		scale = float64(r.ScalingMax)
	}
	return r.Weight + r.Scaling*scale
}

// finalize sorts tiles into (Y, X) order, builds the local lookup, and
// derives door tiles and the bounding box when they were not supplied.
func (r *Room) finalize() {
	sort.SliceStable(r.Tiles, func(i, j int) bool {
		a, b := r.Tiles[i].Local, r.Tiles[j].Local
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	r.tileIndex = make(map[geom.Coord]int, len(r.Tiles))
	for i, t := range r.Tiles {
		r.tileIndex[t.Local] = i
	}

	hasDoorTiles := false
	for _, list := range r.DoorTiles {
		if len(list) > 0 {
			hasDoorTiles = true
			break
		}
	}
	if !hasDoorTiles {
		for _, t := range r.Tiles {
			for _, dir := range geom.AllDirections() {
				if t.Walls[dir] == geom.Door {
					r.DoorTiles[dir] = append(r.DoorTiles[dir], t.Local)
				}
			}
		}
	}

	if r.BoundingBox == (BoundingBox{}) && len(r.Tiles) > 0 {
		minC, maxC := r.Tiles[0].Local, r.Tiles[0].Local
		for _, t := range r.Tiles[1:] {
			minC.X = min(minC.X, t.Local.X)
			minC.Y = min(minC.Y, t.Local.Y)
			maxC.X = max(maxC.X, t.Local.X)
			maxC.Y = max(maxC.Y, t.Local.Y)
		}
		r.BoundingBox = BoundingBox{
			Origin: minC,
			Size:   maxC.Sub(minC),
		}
	}
}
