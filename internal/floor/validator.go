package floor

import (
	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// CanPlace reports whether room fits with its door tile doorLocal on the
// grid cell anchor. The room's bounding box must sit strictly inside the
// grid, no tile may overlap, and every door must meet a door: never the
// boundary, a wall, or an open edge of a neighbour. Neighbour doors facing
// the room must likewise meet a door.
func CanPlace(g *Grid, anchor, doorLocal geom.Coord, room *catalog.Room) bool {
	origin := anchor.Sub(doorLocal)

	bb := origin.Add(room.BoundingBox.Origin)
	size := room.BoundingBox.Size
	if bb.X < 0 || bb.Y < 0 || bb.X+size.X >= g.Width() || bb.Y+size.Y >= g.Height() {
		return false
	}

	for _, t := range room.Tiles {
		pos := origin.Add(t.Local)
		if !g.InBounds(pos) || g.Occupied(pos) {
			return false
		}

		for _, dir := range geom.AllDirections() {
			next := pos.Step(dir)
			neighbour := g.At(next)
			if t.Walls[dir] == geom.Door {
				if !g.InBounds(next) {
					return false
				}
				if neighbour != nil && neighbour.Walls[dir.Opposite()] != geom.Door {
					return false
				}
				continue
			}
			if neighbour != nil && neighbour.Walls[dir.Opposite()] == geom.Door {
				return false
			}
		}
	}
	return true
}
