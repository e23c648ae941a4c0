package floor

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/geom"
	"github.com/lawnchairsociety/floorforge/internal/mapfmt"
)

// Transition is the [layout id, offset x, offset y] target of a door
type Transition [3]int

// Package is the level editor's import format
type Package struct {
	// RoomData[i] is [room id, origin x, origin y] for layout id i. Entry 0
	// is empty.
	RoomData [][]int `json:"RoomData"`
	// TransitionData maps layout id to "ox_oy_dir" to the tile behind it.
	TransitionData map[string]map[string]Transition `json:"TransitionData"`
	MapData        *mapfmt.MapData                  `json:"MapData"`
	// ItemData maps "layoutId_ox_oy" to an item id.
	ItemData map[string]access.ItemID `json:"ItemData"`
	// BossData is the boss room's layout id.
	BossData int `json:"BossData"`
}

// EditorTiles rebuilds the editor tile list from the package's map data
func (p *Package) EditorTiles() ([]mapfmt.EditorTile, error) {
	return mapfmt.DecodeMapData(p.MapData)
}

// Package exports a successful generation
func (g *Generator) Package() (*Package, error) {
	if !g.generated {
		return nil, ErrNotGenerated
	}

	transitions, err := g.transitionData()
	if err != nil {
		return nil, err
	}

	return &Package{
		RoomData:       g.roomData(),
		TransitionData: transitions,
		MapData:        g.mapData(),
		ItemData:       maps.Clone(g.items),
		BossData:       g.grid.At(g.boss).LayoutID,
	}, nil
}

func (g *Generator) roomData() [][]int {
	out := make([][]int, len(g.rooms)+1)
	out[0] = []int{}

	bossLayout := g.grid.At(g.boss).LayoutID
	for _, r := range g.rooms {
		roomID := r.RoomID
		if r.LayoutID == bossLayout {
			roomID = g.bossRoomID(roomID)
		}
		out[r.LayoutID] = []int{roomID, r.Origin.X, r.Origin.Y}
	}
	return out
}

// bossRoomID swaps the boss tile's room for the boss room facing the same
// way, unless it already is one.
func (g *Generator) bossRoomID(current int) int {
	if len(g.opts.BossRooms) == 0 {
		return current
	}
	for _, id := range g.opts.BossRooms {
		if id == current {
			return current
		}
	}

	tile := g.grid.At(g.boss)
	for _, dir := range []geom.Direction{geom.Down, geom.Left, geom.Up, geom.Right} {
		if tile.Walls[dir] != geom.Door {
			continue
		}
		if id, ok := g.opts.BossRooms[dir]; ok {
			return id
		}
	}
	return current
}

func (g *Generator) transitionData() (map[string]map[string]Transition, error) {
	out := make(map[string]map[string]Transition)
	add := func(from *Tile, dir geom.Direction, to *Tile) {
		outer := strconv.Itoa(from.LayoutID)
		if out[outer] == nil {
			out[outer] = make(map[string]Transition)
		}
		inner := fmt.Sprintf("%d_%d_%d", from.Offset.X, from.Offset.Y, dir)
		out[outer][inner] = Transition{to.LayoutID, to.Offset.X, to.Offset.Y}
	}

	for _, d := range g.grid.Doors() {
		from := g.grid.At(d.Pos)
		to := g.grid.At(d.Pos.Step(d.Dir))
		if to == nil {
			return nil, fmt.Errorf("%w: %v facing %s", ErrDanglingDoor, d.Pos, d.Dir)
		}
		add(from, d.Dir, to)
	}

	for _, p := range g.teleporters {
		a, b := g.grid.At(p.A), g.grid.At(p.B)
		add(a, geom.Back, b)
		add(b, geom.Back, a)
	}
	return out, nil
}

func (g *Generator) mapData() *mapfmt.MapData {
	md := mapfmt.NewMapData(g.opts.Width, g.opts.Height)

	teleporters := mapset.New[geom.Coord]()
	for _, p := range g.teleporters {
		teleporters.Put(p.A)
		teleporters.Put(p.B)
	}

	g.grid.Each(func(pos geom.Coord, t *Tile) {
		cell := mapfmt.Cell{Walls: t.Walls, Color: mapfmt.ColorNormal}
		switch {
		case pos == g.start:
			cell.Special = mapfmt.SpecialStart
		case g.itemTiles.Has(pos):
			cell.Special = mapfmt.SpecialItem
		case teleporters.Has(pos):
			cell.Color = mapfmt.ColorTeleporter
			cell.Special = mapfmt.SpecialTeleporter
		case pos == g.boss:
			cell.Color = mapfmt.ColorBoss
			cell.Special = mapfmt.SpecialBoss
		}
		md.Set(pos, cell)
	})
	return md
}
