package mapfmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// Legend explains the symbols Render draws.
const Legend = `Legend:
  [S] Start
  [B] Boss
  [$] Item
  [T] Teleporter
  [#] Room tile

  Connections:
  -   Door (left-right)
  |   Door (up-down)
`

// Render draws map data as ASCII art. Each cell is five characters wide
// and three tall:
//
//	  |     (up door)
//	-[S]-   (left door, symbol, right door)
//	  |     (down door)
func Render(w io.Writer, m *MapData) error {
	if len(m.Cells) != m.Width*m.Height {
		return fmt.Errorf("%w: %d cells for a %dx%d map", ErrMalformedMap, len(m.Cells), m.Width, m.Height)
	}

	cells := make([]*Cell, len(m.Cells))
	for i, s := range m.Cells {
		c, ok, err := DecodeCell(s)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		if ok {
			cells[i] = &c
		}
	}

	bw := bufio.NewWriter(w)
	var line strings.Builder
	for y := 0; y < m.Height; y++ {
		for row := 0; row < 3; row++ {
			line.Reset()
			for x := 0; x < m.Width; x++ {
				line.WriteString(renderCell(cells[y*m.Width+x], row))
			}
			bw.WriteString(strings.TrimRight(line.String(), " "))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func renderCell(c *Cell, row int) string {
	if c == nil {
		return "     "
	}
	switch row {
	case 0:
		return vertical(c.Walls[geom.Up])
	case 2:
		return vertical(c.Walls[geom.Down])
	}
	return horizontal(c.Walls[geom.Left]) + "[" + c.Symbol() + "]" + horizontal(c.Walls[geom.Right])
}

func vertical(k geom.WallKind) string {
	if k == geom.Door {
		return "  |  "
	}
	return "     "
}

func horizontal(k geom.WallKind) string {
	if k == geom.Door {
		return "-"
	}
	return " "
}

// Symbol returns the one character Render draws for a cell.
func (c Cell) Symbol() string {
	switch c.Special {
	case SpecialStart:
		return "S"
	case SpecialBoss:
		return "B"
	case SpecialItem:
		return "$"
	case SpecialTeleporter:
		return "T"
	}
	return "#"
}
