package floor

import (
	"testing"

	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

const (
	o = geom.NoWall
	w = geom.Wall
	d = geom.Door
)

// tileRoom builds a single-tile room; rooms with one door are dead ends
func tileRoom(id int, walls geom.Walls, weight float64, hold bool) *catalog.Room {
	return &catalog.Room{
		ID:         id,
		Weight:     weight,
		ScalingMax: -1,
		IsDeadEnd:  walls.DoorCount() == 1,
		Tiles:      []catalog.LayoutTile{{Walls: walls, CanHoldItem: hold}},
	}
}

func mustCatalog(t *testing.T, rooms ...*catalog.Room) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(rooms)
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	return cat
}

// corridorCatalog holds a horizontal corridor and the two horizontal dead
// ends.
func corridorCatalog(t *testing.T, hold bool) *catalog.Catalog {
	return mustCatalog(t,
		tileRoom(1, geom.Walls{d, w, d, w}, 1, hold),
		tileRoom(2, geom.Walls{d, w, w, w}, 0, false),
		tileRoom(3, geom.Walls{w, w, d, w}, 0, false),
	)
}

// patternCatalog holds a single-tile room for every door pattern, so any
// open connection can be closed.
func patternCatalog(t *testing.T, extra ...*catalog.Room) *catalog.Catalog {
	var rooms []*catalog.Room
	for mask := 1; mask < 16; mask++ {
		walls := geom.Walls{w, w, w, w}
		for _, dir := range geom.AllDirections() {
			if mask&(1<<dir) != 0 {
				walls[dir] = d
			}
		}
		weight := 1.0
		if walls.DoorCount() == 1 {
			weight = 0
		}
		rooms = append(rooms, tileRoom(100+mask, walls, weight, true))
	}
	return mustCatalog(t, append(rooms, extra...)...)
}

func testOptions(width, height int, seed int64) Options {
	opts := DefaultOptions(width, height)
	opts.Seed = seed
	return opts
}
