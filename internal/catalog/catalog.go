// Package catalog loads the read-only set of room definitions the floor
// generator places from.
package catalog

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

var (
	ErrEmptyCatalog = errors.New("catalog: no rooms defined")
	ErrInvalidRoom  = errors.New("catalog: invalid room definition")
)

// Catalog is an immutable room collection indexed by door direction. It is
// safe to share between concurrent generation attempts.
type Catalog struct {
	rooms    []*Room
	byDoor   [4][]*Room
	deadEnds []*Room
}

// New builds a catalog from room definitions, deriving the per-direction
// indices from each room's door tiles.
func New(rooms []*Room) (*Catalog, error) {
	return build(rooms, nil)
}

// build assembles a catalog. When doorIndex is non-nil it supplies the
// per-direction room indices; otherwise they are derived.
func build(rooms []*Room, doorIndex *[4][]int) (*Catalog, error) {
	if len(rooms) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{rooms: rooms}
	for i, r := range rooms {
		r.Index = i
		r.finalize()
		if err := validateRoom(r); err != nil {
			return nil, err
		}
		if r.IsDeadEnd {
			c.deadEnds = append(c.deadEnds, r)
		}
	}

	for _, dir := range geom.AllDirections() {
		if doorIndex != nil && doorIndex[dir] != nil {
			for _, idx := range doorIndex[dir] {
				if idx < 0 || idx >= len(rooms) {
					return nil, fmt.Errorf("%w: %s door index %d out of range", ErrInvalidRoom, dir, idx)
				}
				if !rooms[idx].HasDoor(dir) {
					return nil, fmt.Errorf("%w: room %d listed with a %s door it does not have", ErrInvalidRoom, rooms[idx].ID, dir)
				}
				c.byDoor[dir] = append(c.byDoor[dir], rooms[idx])
			}
			continue
		}
		for _, r := range rooms {
			if r.HasDoor(dir) {
				c.byDoor[dir] = append(c.byDoor[dir], r)
			}
		}
	}

	return c, nil
}

func validateRoom(r *Room) error {
	if len(r.Tiles) == 0 {
		return fmt.Errorf("%w: room %d has no tiles", ErrInvalidRoom, r.ID)
	}
	for _, dir := range geom.AllDirections() {
		for _, local := range r.DoorTiles[dir] {
			t, ok := r.Tile(local)
			if !ok {
				return fmt.Errorf("%w: room %d door tile %v not in layout", ErrInvalidRoom, r.ID, local)
			}
			if t.Walls[dir] != geom.Door {
				return fmt.Errorf("%w: room %d tile %v has no %s door", ErrInvalidRoom, r.ID, local, dir)
			}
		}
	}
	if r.IsDeadEnd && r.DoorCount() > 1 {
		return fmt.Errorf("%w: dead end room %d has %d doors", ErrInvalidRoom, r.ID, r.DoorCount())
	}
	return nil
}

// Rooms returns every room in catalog order
func (c *Catalog) Rooms() []*Room {
	return c.rooms
}

// Len returns the number of rooms
func (c *Catalog) Len() int {
	return len(c.rooms)
}

// RoomsWithDoor returns the rooms that have at least one door facing dir
func (c *Catalog) RoomsWithDoor(dir geom.Direction) []*Room {
	if !dir.Valid() {
		return nil
	}
	return c.byDoor[dir]
}

// DeadEnds returns the rooms flagged as dead ends
func (c *Catalog) DeadEnds() []*Room {
	return c.deadEnds
}
