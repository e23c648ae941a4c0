package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

const sampleCatalog = `{
  "AllRooms": [
    {
      "RoomID": 10,
      "Lock": [],
      "Weight": 2,
      "Scaling": 0.5,
      "Scaling Min": 1,
      "Scaling Max": 4,
      "Layout": {
        "1,0": [2, 1, 0, 1, true, [3]],
        "0,0": [0, 1, 2, 1, 0, []]
      },
      "IsDeadEnd": false,
      "DoorTiles": [["1,0"], [], ["0,0"], []],
      "BoundingBox": [0, 0, 1, 0]
    },
    {
      "RoomID": 11,
      "Lock": [1],
      "Weight": 0,
      "Scaling": 0,
      "Scaling Min": 0,
      "Scaling Max": -1,
      "Layout": {
        "0,0": [1, 1, 2, 1, 1, []]
      },
      "IsDeadEnd": true,
      "DoorTiles": [[], [], ["0,0"], []],
      "BoundingBox": [0, 0, 0, 0]
    }
  ],
  "RightDoorRooms": [0],
  "UpDoorRooms": [],
  "LeftDoorRooms": [0, 1],
  "DownDoorRooms": []
}`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cat.Len() != 2 {
		t.Fatalf("expected 2 rooms, got %d", cat.Len())
	}

	corridor := cat.Rooms()[0]
	if corridor.ID != 10 || corridor.Index != 0 {
		t.Errorf("room 0: id %d index %d", corridor.ID, corridor.Index)
	}
	if corridor.Tiles[0].Local != (geom.Coord{X: 0, Y: 0}) {
		t.Errorf("tiles should be sorted, first is %v", corridor.Tiles[0].Local)
	}

	tile, ok := corridor.Tile(geom.Coord{X: 1, Y: 0})
	if !ok {
		t.Fatal("expected tile at (1,0)")
	}
	if !tile.CanHoldItem {
		t.Error("tile (1,0) should hold an item")
	}
	if tile.Walls[geom.Right] != geom.Door || tile.Walls[geom.Left] != geom.NoWall {
		t.Errorf("unexpected walls %v", tile.Walls)
	}
	if len(tile.Lock) != 1 || tile.Lock[0] != 3 {
		t.Errorf("tile lock = %v", tile.Lock)
	}

	other, _ := corridor.Tile(geom.Coord{X: 0, Y: 0})
	if other.CanHoldItem {
		t.Error("numeric 0 flag should decode as false")
	}

	if got := len(cat.RoomsWithDoor(geom.Left)); got != 2 {
		t.Errorf("left door rooms = %d, want 2", got)
	}
	if got := len(cat.RoomsWithDoor(geom.Up)); got != 0 {
		t.Errorf("up door rooms = %d, want 0", got)
	}
	if got := cat.RoomsWithDoor(geom.Back); got != nil {
		t.Errorf("back should have no rooms, got %d", len(got))
	}

	ends := cat.DeadEnds()
	if len(ends) != 1 || ends[0].ID != 11 {
		t.Errorf("dead ends = %v", ends)
	}
	if ends[0].ScalingMax != -1 {
		t.Errorf("ScalingMax = %d, want -1", ends[0].ScalingMax)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"no rooms", `{"AllRooms": []}`},
		{"bad key", `{"AllRooms": [{"RoomID": 1, "Layout": {"a,b": [2,1,1,1]}}]}`},
		{"short layout", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [2,1]}}]}`},
		{"bad wall kind", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [7,1,1,1]}}]}`},
		{"door tile missing", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [2,1,1,1]}, "DoorTiles": [["3,3"],[],[],[]]}]}`},
		{"door tile without door", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [2,1,1,1]}, "DoorTiles": [[],["0,0"],[],[]]}]}`},
		{"index out of range", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [2,1,1,1]}}], "RightDoorRooms": [4]}`},
		{"index without door", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [2,1,1,1]}}], "UpDoorRooms": [0]}`},
		{"dead end with two doors", `{"AllRooms": [{"RoomID": 1, "IsDeadEnd": true, "Layout": {"0,0": [2,2,1,1]}}]}`},
		{"bad bounding box", `{"AllRooms": [{"RoomID": 1, "Layout": {"0,0": [2,1,1,1]}, "BoundingBox": [0,0]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDerivedIndices(t *testing.T) {
	room := &Room{
		ID:         5,
		ScalingMax: -1,
		Tiles: []LayoutTile{
			{Local: geom.Coord{X: 0, Y: 1}, Walls: geom.Walls{geom.Wall, geom.NoWall, geom.Wall, geom.Door}},
			{Local: geom.Coord{X: 0, Y: 0}, Walls: geom.Walls{geom.Door, geom.Wall, geom.Wall, geom.NoWall}},
		},
	}

	cat, err := New([]*Room{room})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if len(cat.RoomsWithDoor(geom.Right)) != 1 || len(cat.RoomsWithDoor(geom.Down)) != 1 {
		t.Error("door indices should be derived from walls")
	}
	if room.DoorTiles[geom.Down][0] != (geom.Coord{X: 0, Y: 1}) {
		t.Errorf("down door tile = %v", room.DoorTiles[geom.Down])
	}
	want := BoundingBox{Size: geom.Coord{X: 0, Y: 1}}
	if room.BoundingBox != want {
		t.Errorf("bounding box = %+v, want %+v", room.BoundingBox, want)
	}
	if room.DoorCount() != 2 {
		t.Errorf("DoorCount = %d, want 2", room.DoorCount())
	}
}

func TestNewEmpty(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestWeightAt(t *testing.T) {
	tests := []struct {
		name  string
		min   int
		max   int
		depth int
		want  float64
	}{
		{"below min", 3, 6, 2, 1},
		{"at min", 3, 6, 3, 1 + 2*3},
		{"below max", 3, 6, 5, 1 + 2*5},
		{"at max", 3, 6, 6, 1 + 2*6},
		{"past max", 3, 6, 10, 1 + 2*6},
		{"unbounded", 0, -1, 40, 1 + 2*40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Room{Weight: 1, Scaling: 2, ScalingMin: tt.min, ScalingMax: tt.max}
			if got := r.WeightAt(tt.depth); got != tt.want {
				t.Errorf("WeightAt(%d) = %v, want %v", tt.depth, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("expected 2 rooms, got %d", cat.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
