// Package mapfmt encodes generated floors into the level editor's map
// formats: the compact MapData cell strings and the editor tile list.
package mapfmt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

var (
	ErrMalformedMap  = errors.New("mapfmt: malformed map data")
	ErrMalformedCell = errors.New("mapfmt: malformed cell")
)

// EmptyCell is the MapData entry for a cell with no tile
const EmptyCell = "0"

// EditorOrigin is where grid (0,0) lands in editor space
var EditorOrigin = geom.Coord{X: 3, Y: 3}

// Color is the map colour digit of a cell
type Color int

const (
	ColorNormal     Color = 1
	ColorTeleporter Color = 2
	ColorBoss       Color = 4
)

// Special is the map marker digit of a cell
type Special int

const (
	SpecialNone       Special = 0
	SpecialStart      Special = 1
	SpecialItem       Special = 3
	SpecialBoss       Special = 4
	SpecialTeleporter Special = 7
)

// Cell is the decoded form of one occupied MapData entry
type Cell struct {
	Walls   geom.Walls
	Color   Color
	Special Special
}

// Encode returns the 7 character cell string: up, right, down and left
// walls, colour, special marker and a trailing zero.
func (c Cell) Encode() string {
	return fmt.Sprintf("%d%d%d%d%d%d0",
		c.Walls[geom.Up], c.Walls[geom.Right], c.Walls[geom.Down], c.Walls[geom.Left],
		c.Color, c.Special)
}

// DecodeCell parses a MapData cell string. The boolean is false for an
// empty cell.
func DecodeCell(s string) (Cell, bool, error) {
	if s == EmptyCell {
		return Cell{}, false, nil
	}
	if len(s) != 7 {
		return Cell{}, false, fmt.Errorf("%w: %q has length %d", ErrMalformedCell, s, len(s))
	}

	var digits [7]int
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Cell{}, false, fmt.Errorf("%w: %q", ErrMalformedCell, s)
		}
		digits[i] = int(s[i] - '0')
	}

	var c Cell
	for i, dir := range []geom.Direction{geom.Up, geom.Right, geom.Down, geom.Left} {
		if digits[i] > int(geom.Door) {
			return Cell{}, false, fmt.Errorf("%w: %q has wall kind %d", ErrMalformedCell, s, digits[i])
		}
		c.Walls[dir] = geom.WallKind(digits[i])
	}
	c.Color = Color(digits[4])
	c.Special = Special(digits[5])
	return c, true, nil
}

// MapData is the row-major cell list, serialized as [width, height, cells...]
type MapData struct {
	Width  int
	Height int
	Cells  []string
}

// NewMapData creates map data with every cell empty
func NewMapData(width, height int) *MapData {
	cells := make([]string, width*height)
	for i := range cells {
		cells[i] = EmptyCell
	}
	return &MapData{Width: width, Height: height, Cells: cells}
}

// Set stores an encoded cell at a grid position
func (m *MapData) Set(pos geom.Coord, c Cell) {
	m.Cells[pos.Y*m.Width+pos.X] = c.Encode()
}

// MarshalJSON writes the mixed [width, height, cells...] array
func (m MapData) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(m.Cells)+2)
	out = append(out, m.Width, m.Height)
	for _, c := range m.Cells {
		out = append(out, c)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the mixed [width, height, cells...] array
func (m *MapData) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("%w: missing dimensions", ErrMalformedMap)
	}
	if err := json.Unmarshal(raw[0], &m.Width); err != nil {
		return fmt.Errorf("%w: width: %v", ErrMalformedMap, err)
	}
	if err := json.Unmarshal(raw[1], &m.Height); err != nil {
		return fmt.Errorf("%w: height: %v", ErrMalformedMap, err)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedMap, m.Width, m.Height)
	}
	if len(raw)-2 != m.Width*m.Height {
		return fmt.Errorf("%w: %d cells for a %dx%d map", ErrMalformedMap, len(raw)-2, m.Width, m.Height)
	}

	m.Cells = make([]string, 0, len(raw)-2)
	for i, r := range raw[2:] {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return fmt.Errorf("%w: cell %d: %v", ErrMalformedMap, i, err)
		}
		m.Cells = append(m.Cells, s)
	}
	return nil
}

// EditorTile is one entry of the level editor's tile list
type EditorTile struct {
	Color    int  `json:"color"`
	Corner   int  `json:"corner"`
	IsCorner bool `json:"isCorner"`
	Special  int  `json:"special"`
	WallD    int  `json:"wallD"`
	WallL    int  `json:"wallL"`
	WallU    int  `json:"wallU"`
	WallR    int  `json:"wallR"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
}

// EditorTile converts a cell at a grid position to editor form. Editor
// colours are one below the map colour digit.
func (c Cell) EditorTile(pos geom.Coord) EditorTile {
	return EditorTile{
		Color:   int(c.Color) - 1,
		Special: int(c.Special),
		WallD:   int(c.Walls[geom.Down]),
		WallL:   int(c.Walls[geom.Left]),
		WallU:   int(c.Walls[geom.Up]),
		WallR:   int(c.Walls[geom.Right]),
		X:       pos.X + EditorOrigin.X,
		Y:       pos.Y + EditorOrigin.Y,
	}
}

// DecodeMapData rebuilds the editor tile list from map data. Empty cells
// produce no tile.
func DecodeMapData(m *MapData) ([]EditorTile, error) {
	if len(m.Cells) != m.Width*m.Height {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d map", ErrMalformedMap, len(m.Cells), m.Width, m.Height)
	}

	var tiles []EditorTile
	for i, s := range m.Cells {
		c, ok, err := DecodeCell(s)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if !ok {
			continue
		}
		pos := geom.Coord{X: i % m.Width, Y: i / m.Width}
		tiles = append(tiles, c.EditorTile(pos))
	}
	return tiles, nil
}
