package floor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/geom"
	"github.com/lawnchairsociety/floorforge/internal/logger"
)

// Floor size limits of the level editor
const (
	MaxWidth  = 74
	MaxHeight = 57
)

const (
	DefaultItemThreshold    = 0.9
	DefaultTeleporterChance = 0.5
)

// Order controls where newly opened connections join the worklist
type Order int

const (
	// OrderBreadthFirst appends new connections, growing the floor in rings
	// around the start.
	OrderBreadthFirst Order = iota
	// OrderNewestFirst pushes new connections to the front so each branch
	// grows out before its siblings.
	OrderNewestFirst
)

func (o Order) String() string {
	switch o {
	case OrderBreadthFirst:
		return "breadth-first"
	case OrderNewestFirst:
		return "newest-first"
	default:
		return "unknown"
	}
}

// ParseOrder converts a worklist order name to an Order
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "breadth-first":
		return OrderBreadthFirst, nil
	case "newest-first":
		return OrderNewestFirst, nil
	}
	return 0, fmt.Errorf("unknown worklist order %q", s)
}

// Options configures a single generation attempt
type Options struct {
	Width, Height int
	Seed          int64

	// StartInventory is held from the start and never placed.
	StartInventory []access.ItemID

	// ItemThreshold is compared against a uniform roll per eligible tile;
	// a roll at or above it places a major item.
	ItemThreshold float64
	// TeleporterChance is the probability a dead-end pair is linked.
	TeleporterChance float64

	// UniqueRooms stops a non-dead-end room from being placed twice.
	UniqueRooms bool
	Order       Order

	// StartRooms maps the start tile's door direction to its room id.
	StartRooms map[geom.Direction]int
	// BossRooms maps the boss tile's door direction to the room id written
	// to the export. Empty leaves the boss room untouched.
	BossRooms map[geom.Direction]int

	Logger *slog.Logger
}

// DefaultOptions returns the level editor's defaults for a floor size
func DefaultOptions(width, height int) Options {
	return Options{
		Width:            width,
		Height:           height,
		ItemThreshold:    DefaultItemThreshold,
		TeleporterChance: DefaultTeleporterChance,
		Order:            OrderBreadthFirst,
		StartRooms:       DefaultStartRooms(),
		BossRooms:        DefaultBossRooms(),
	}
}

// DefaultStartRooms returns the start room ids keyed by door direction
func DefaultStartRooms() map[geom.Direction]int {
	return map[geom.Direction]int{geom.Right: 409, geom.Left: 407}
}

// DefaultBossRooms returns the boss room ids keyed by door direction
func DefaultBossRooms() map[geom.Direction]int {
	return map[geom.Direction]int{geom.Down: 406, geom.Left: 407, geom.Up: 408, geom.Right: 409}
}

// Stats counts the work done by one generation
type Stats struct {
	Iterations  int `json:"iterations" yaml:"iterations"`
	MaxDepth    int `json:"max_depth" yaml:"max_depth"`
	Rooms       int `json:"rooms" yaml:"rooms"`
	Tiles       int `json:"tiles" yaml:"tiles"`
	Items       int `json:"items" yaml:"items"`
	Keys        int `json:"keys" yaml:"keys"`
	Teleporters int `json:"teleporters" yaml:"teleporters"`
}

// PlacedRoom is one stamped room instance
type PlacedRoom struct {
	LayoutID int
	RoomID   int
	// Origin is the global position of the room's bounding box origin.
	Origin geom.Coord
}

// connection is an open door waiting for a room. Dir is the side of the
// incoming room that must hold the matching door.
type connection struct {
	Pos   geom.Coord
	Dir   geom.Direction
	Depth int
}

type keySpot struct {
	LayoutID int
	Offset   geom.Coord
	Pos      geom.Coord
}

type candidate struct {
	room    *catalog.Room
	anchors []geom.Coord
}

// Generator grows one floor from a catalog. A Generator is not safe for
// concurrent use; run attempts on separate generators.
type Generator struct {
	cat  *catalog.Catalog
	opts Options
	rng  *rand.Rand
	log  *slog.Logger

	grid       *Grid
	model      *access.Model
	majors     []access.ItemID
	used       mapset.Set[int]
	nextLayout int
	rooms      []PlacedRoom
	start      geom.Coord

	items     map[string]access.ItemID
	itemTiles mapset.Set[geom.Coord]
	keySpots  []keySpot
	keysLeft  int
	deadEnds  []geom.Coord

	boss        geom.Coord
	teleporters []TeleporterPair

	stats     Stats
	generated bool
}

// New creates a generator for one floor
func New(cat *catalog.Catalog, opts Options) (*Generator, error) {
	if cat == nil {
		return nil, fmt.Errorf("floor: nil catalog")
	}
	if opts.Width < 2 || opts.Height < 1 || opts.Width > MaxWidth || opts.Height > MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d (width 2-%d, height 1-%d)", ErrInvalidSize, opts.Width, opts.Height, MaxWidth, MaxHeight)
	}
	if opts.StartRooms == nil {
		opts.StartRooms = DefaultStartRooms()
	}

	log := opts.Logger
	if log == nil {
		log = logger.Logger()
	}

	return &Generator{
		cat:  cat,
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
		log:  log.With("seed", opts.Seed),
	}, nil
}

// reset discards any previous attempt's state
func (g *Generator) reset(bossKeys int) {
	g.grid = NewGrid(g.opts.Width, g.opts.Height)
	g.model = access.NewModel(g.opts.StartInventory)
	g.majors = g.majors[:0]
	for _, id := range access.MajorItems() {
		if !g.model.Has(id) {
			g.majors = append(g.majors, id)
		}
	}
	g.used = mapset.New[int]()
	g.nextLayout = 1
	g.rooms = nil
	g.items = make(map[string]access.ItemID)
	g.itemTiles = mapset.New[geom.Coord]()
	g.keySpots = nil
	g.keysLeft = bossKeys
	g.deadEnds = nil
	g.teleporters = nil
	g.stats = Stats{}
	g.generated = false
}

// Generate builds the floor and runs the post passes. It returns
// ErrUnsatisfiable, ErrInsufficientKeys or ErrNoBossDeadEnd when the
// attempt cannot produce a valid floor; callers retry with a new seed.
func (g *Generator) Generate(ctx context.Context, bossKeys int) error {
	if bossKeys < 0 {
		return fmt.Errorf("floor: negative boss key count %d", bossKeys)
	}
	g.reset(bossKeys)

	first, err := g.placeStart()
	if err != nil {
		return err
	}

	queue := []connection{first}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn := queue[0]
		queue = queue[1:]
		g.stats.Iterations++
		g.stats.MaxDepth = max(g.stats.MaxDepth, conn.Depth)

		if g.grid.Occupied(conn.Pos) {
			continue
		}

		opened, err := g.fill(conn)
		if err != nil {
			return err
		}

		if g.opts.Order == OrderNewestFirst {
			queue = append(opened, queue...)
		} else {
			queue = append(queue, opened...)
		}
	}

	if err := g.grid.CheckDoors(); err != nil {
		return err
	}
	if err := g.placeRemainingBossKeys(); err != nil {
		return err
	}
	ends, err := g.selectBoss()
	if err != nil {
		return err
	}
	g.teleporters = PairTeleporters(ends, g.opts.TeleporterChance, g.rng)
	for _, p := range g.teleporters {
		g.log.Debug("linked dead ends with a teleporter", "a", p.A.String(), "b", p.B.String())
	}

	g.stats.Rooms = len(g.rooms)
	g.stats.Tiles = g.grid.Count()
	g.stats.Teleporters = len(g.teleporters)
	g.generated = true
	return nil
}

// placeStart stamps the single-door start tile and returns the connection
// its door opens. Edge columns force the door to face inward.
func (g *Generator) placeStart() (connection, error) {
	pos := geom.Coord{X: g.rng.Intn(g.opts.Width), Y: g.rng.Intn(g.opts.Height)}

	var dir geom.Direction
	switch {
	case pos.X == 0:
		dir = geom.Right
	case pos.X == g.opts.Width-1:
		dir = geom.Left
	case g.rng.Intn(2) == 0:
		dir = geom.Right
	default:
		dir = geom.Left
	}

	walls := geom.Walls{geom.Wall, geom.Wall, geom.Wall, geom.Wall}
	walls[dir] = geom.Door

	layoutID := g.nextLayout
	g.nextLayout++
	roomID := g.opts.StartRooms[dir]
	if err := g.grid.Place(pos, Tile{Walls: walls, RoomID: roomID, LayoutID: layoutID}); err != nil {
		return connection{}, err
	}
	g.rooms = append(g.rooms, PlacedRoom{LayoutID: layoutID, RoomID: roomID, Origin: pos})
	g.start = pos

	return connection{Pos: pos.Step(dir), Dir: dir.Opposite(), Depth: 0}, nil
}

// fill places a room, or failing that a dead end, on an open connection
func (g *Generator) fill(conn connection) ([]connection, error) {
	cands := g.candidates(conn, g.cat.RoomsWithDoor(conn.Dir), true)
	if len(cands) == 0 {
		return nil, g.placeDeadEnd(conn)
	}

	weights := make([]float64, len(cands))
	for i, c := range cands {
		weights[i] = c.room.WeightAt(conn.Depth)
	}
	choice := cands[PickWeighted(weights, g.rng.Float64()*totalWeight(weights))]
	anchor := choice.anchors[g.rng.Intn(len(choice.anchors))]

	opened, err := g.stamp(conn.Pos.Sub(anchor), choice.room, conn.Depth+1)
	if err != nil {
		return nil, err
	}
	if g.opts.UniqueRooms && !choice.room.IsDeadEnd {
		g.used.Put(choice.room.Index)
	}
	return opened, nil
}

// candidates returns the rooms that fit conn with their valid anchors.
// With filter set, rooms with no weight at this depth, closed locks or
// already used unique rooms are skipped.
func (g *Generator) candidates(conn connection, rooms []*catalog.Room, filter bool) []candidate {
	var out []candidate
	for _, room := range rooms {
		if !room.HasDoor(conn.Dir) {
			continue
		}
		if filter {
			if room.WeightAt(conn.Depth) <= 0 || !g.model.IsOpen(room.Lock) {
				continue
			}
			if g.opts.UniqueRooms && g.used.Has(room.Index) {
				continue
			}
		}

		var anchors []geom.Coord
		for _, local := range room.DoorTiles[conn.Dir] {
			if CanPlace(g.grid, conn.Pos, local, room) {
				anchors = append(anchors, local)
			}
		}
		if len(anchors) > 0 {
			out = append(out, candidate{room: room, anchors: anchors})
		}
	}
	return out
}

// placeDeadEnd closes a connection nothing else fits
func (g *Generator) placeDeadEnd(conn connection) error {
	ends := g.candidates(conn, g.cat.DeadEnds(), false)
	if len(ends) == 0 {
		return fmt.Errorf("%w: %v needs a %s door", ErrUnsatisfiable, conn.Pos, conn.Dir)
	}
	choice := ends[g.rng.Intn(len(ends))]
	anchor := choice.anchors[g.rng.Intn(len(choice.anchors))]
	_, err := g.stamp(conn.Pos.Sub(anchor), choice.room, conn.Depth+1)
	return err
}

// stamp writes a room into the grid at origin, rolls items for its tiles
// and returns the connections its doors open onto empty cells.
func (g *Generator) stamp(origin geom.Coord, room *catalog.Room, depth int) ([]connection, error) {
	layoutID := g.nextLayout
	g.nextLayout++
	g.rooms = append(g.rooms, PlacedRoom{
		LayoutID: layoutID,
		RoomID:   room.ID,
		Origin:   origin.Add(room.BoundingBox.Origin),
	})

	for _, t := range room.Tiles {
		tile := Tile{
			Walls:    t.Walls,
			RoomID:   room.ID,
			LayoutID: layoutID,
			Offset:   t.Local.Sub(room.BoundingBox.Origin),
		}
		if err := g.grid.Place(origin.Add(t.Local), tile); err != nil {
			return nil, err
		}
	}

	var opened []connection
	placedItem := false
	for _, t := range room.Tiles {
		pos := origin.Add(t.Local)
		for _, dir := range geom.AllDirections() {
			if t.Walls[dir] != geom.Door {
				continue
			}
			next := pos.Step(dir)
			if g.grid.InBounds(next) && !g.grid.Occupied(next) {
				opened = append(opened, connection{Pos: next, Dir: dir.Opposite(), Depth: depth})
			}
		}

		if !t.CanHoldItem || !g.model.IsOpen(t.Lock) {
			continue
		}
		offset := t.Local.Sub(room.BoundingBox.Origin)
		if len(g.majors) > 0 && g.rng.Float64() >= g.opts.ItemThreshold {
			i := g.rng.Intn(len(g.majors))
			major := g.majors[i]
			g.majors = slices.Delete(g.majors, i, i+1)
			g.placeItem(major, layoutID, offset, pos)
			placedItem = true
			continue
		}
		if g.keysLeft > 0 {
			g.keySpots = append(g.keySpots, keySpot{LayoutID: layoutID, Offset: offset, Pos: pos})
		}
	}

	if len(room.Tiles) == 1 && room.DoorCount() == 1 && !placedItem {
		g.deadEnds = append(g.deadEnds, origin.Add(room.Tiles[0].Local))
	}
	return opened, nil
}

// placeItem records an item on a tile. Majors are collected immediately
// so later rooms and item locations see the new lock bits.
func (g *Generator) placeItem(id access.ItemID, layoutID int, offset, pos geom.Coord) {
	if id != access.BossKey {
		g.model.Collect(id)
		g.stats.Items++
	} else {
		g.keysLeft--
		g.stats.Keys++
	}
	g.items[itemKey(layoutID, offset)] = id
	g.itemTiles.Put(pos)
	g.log.Debug("placed item", "item", access.ItemName(id), "id", int(id), "tile", pos.String(), "keys_left", g.keysLeft)
}

func itemKey(layoutID int, offset geom.Coord) string {
	return fmt.Sprintf("%d_%d_%d", layoutID, offset.X, offset.Y)
}

// Grid returns the floor grid
func (g *Generator) Grid() *Grid { return g.grid }

// Start returns the start tile position
func (g *Generator) Start() geom.Coord { return g.start }

// Boss returns the boss tile position
func (g *Generator) Boss() geom.Coord { return g.boss }

// Teleporters returns the linked dead-end pairs
func (g *Generator) Teleporters() []TeleporterPair { return g.teleporters }

// Rooms returns the placed room instances in layout id order
func (g *Generator) Rooms() []PlacedRoom { return g.rooms }

// Model returns the accessibility model after generation
func (g *Generator) Model() *access.Model { return g.model }

// Stats returns counters for the last generation
func (g *Generator) Stats() Stats { return g.stats }

// Seed returns the seed the generator was created with
func (g *Generator) Seed() int64 { return g.opts.Seed }

// HasItem reports whether an item or key was placed on the tile at pos
func (g *Generator) HasItem(pos geom.Coord) bool {
	return g.itemTiles.Has(pos)
}
