package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// fileFormat is the on-disk room set written by the room authoring tools
type fileFormat struct {
	AllRooms       []roomJSON `json:"AllRooms"`
	RightDoorRooms []int      `json:"RightDoorRooms"`
	UpDoorRooms    []int      `json:"UpDoorRooms"`
	LeftDoorRooms  []int      `json:"LeftDoorRooms"`
	DownDoorRooms  []int      `json:"DownDoorRooms"`
}

type roomJSON struct {
	RoomID      int                   `json:"RoomID"`
	Lock        []uint64              `json:"Lock"`
	Weight      float64               `json:"Weight"`
	Scaling     float64               `json:"Scaling"`
	ScalingMin  int                   `json:"Scaling Min"`
	ScalingMax  *int                  `json:"Scaling Max"`
	Layout      map[string]layoutJSON `json:"Layout"`
	IsDeadEnd   bool                  `json:"IsDeadEnd"`
	DoorTiles   [][]string            `json:"DoorTiles"`
	BoundingBox []int                 `json:"BoundingBox"`
}

// layoutJSON decodes the positional [r, u, l, d, canHold, [locks]] array
type layoutJSON struct {
	walls   geom.Walls
	canHold bool
	lock    []uint64
}

func (l *layoutJSON) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 4 {
		return fmt.Errorf("layout entry has %d fields, need at least 4", len(raw))
	}

	for i := 0; i < 4; i++ {
		var kind int
		if err := json.Unmarshal(raw[i], &kind); err != nil {
			return fmt.Errorf("wall %d: %w", i, err)
		}
		if kind < int(geom.NoWall) || kind > int(geom.Door) {
			return fmt.Errorf("wall %d: unknown wall kind %d", i, kind)
		}
		l.walls[i] = geom.WallKind(kind)
	}

	if len(raw) > 4 {
		hold, err := parseFlag(raw[4])
		if err != nil {
			return fmt.Errorf("can-hold flag: %w", err)
		}
		l.canHold = hold
	}

	if len(raw) > 5 {
		if err := json.Unmarshal(raw[5], &l.lock); err != nil {
			return fmt.Errorf("tile lock: %w", err)
		}
	}
	return nil
}

// parseFlag accepts either a JSON boolean or a number
func parseFlag(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false, err
	}
	return n != 0, nil
}

// parseKey converts an "x,y" layout key into a coordinate
func parseKey(key string) (geom.Coord, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return geom.Coord{}, fmt.Errorf("malformed tile key %q", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return geom.Coord{}, fmt.Errorf("malformed tile key %q: %w", key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return geom.Coord{}, fmt.Errorf("malformed tile key %q: %w", key, err)
	}
	return geom.Coord{X: x, Y: y}, nil
}

func (rj roomJSON) toRoom() (*Room, error) {
	r := &Room{
		ID:         rj.RoomID,
		Lock:       access.Lock(rj.Lock),
		Weight:     rj.Weight,
		Scaling:    rj.Scaling,
		ScalingMin: rj.ScalingMin,
		ScalingMax: -1,
		IsDeadEnd:  rj.IsDeadEnd,
	}
	if rj.ScalingMax != nil {
		r.ScalingMax = *rj.ScalingMax
	}

	for key, lt := range rj.Layout {
		local, err := parseKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: room %d: %v", ErrInvalidRoom, rj.RoomID, err)
		}
		r.Tiles = append(r.Tiles, LayoutTile{
			Local:       local,
			Walls:       lt.walls,
			CanHoldItem: lt.canHold,
			Lock:        access.Lock(lt.lock),
		})
	}

	if len(rj.DoorTiles) > 4 {
		return nil, fmt.Errorf("%w: room %d has %d door tile lists", ErrInvalidRoom, rj.RoomID, len(rj.DoorTiles))
	}
	for dir, keys := range rj.DoorTiles {
		for _, key := range keys {
			local, err := parseKey(key)
			if err != nil {
				return nil, fmt.Errorf("%w: room %d: %v", ErrInvalidRoom, rj.RoomID, err)
			}
			r.DoorTiles[dir] = append(r.DoorTiles[dir], local)
		}
	}

	switch len(rj.BoundingBox) {
	case 0:
	case 4:
		r.BoundingBox = BoundingBox{
			Origin: geom.Coord{X: rj.BoundingBox[0], Y: rj.BoundingBox[1]},
			Size:   geom.Coord{X: rj.BoundingBox[2], Y: rj.BoundingBox[3]},
		}
	default:
		return nil, fmt.Errorf("%w: room %d bounding box has %d values", ErrInvalidRoom, rj.RoomID, len(rj.BoundingBox))
	}

	return r, nil
}

// Parse decodes a room set in the authoring tools' JSON format
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	rooms := make([]*Room, 0, len(f.AllRooms))
	for _, rj := range f.AllRooms {
		r, err := rj.toRoom()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}

	var index *[4][]int
	if f.RightDoorRooms != nil || f.UpDoorRooms != nil || f.LeftDoorRooms != nil || f.DownDoorRooms != nil {
		index = &[4][]int{
			geom.Right: f.RightDoorRooms,
			geom.Up:    f.UpDoorRooms,
			geom.Left:  f.LeftDoorRooms,
			geom.Down:  f.DownDoorRooms,
		}
	}

	return build(rooms, index)
}

// Load reads and parses a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}
