package floor

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// Summary is a readable digest of a generated floor
type Summary struct {
	Width       int              `yaml:"width"`
	Height      int              `yaml:"height"`
	Seed        int64            `yaml:"seed"`
	Start       geom.Coord       `yaml:"start"`
	Boss        geom.Coord       `yaml:"boss"`
	Inventory   []string         `yaml:"start_inventory,omitempty"`
	Items       []ItemSummary    `yaml:"items,omitempty"`
	Teleporters []TeleporterPair `yaml:"teleporters,omitempty"`
	Stats       Stats            `yaml:"stats"`
}

// ItemSummary locates one placed item
type ItemSummary struct {
	Key  string `yaml:"key"`
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// Summary describes the last successful generation
func (g *Generator) Summary() Summary {
	s := Summary{
		Width:       g.opts.Width,
		Height:      g.opts.Height,
		Seed:        g.opts.Seed,
		Start:       g.start,
		Boss:        g.boss,
		Teleporters: g.teleporters,
		Stats:       g.stats,
	}
	for _, id := range g.opts.StartInventory {
		s.Inventory = append(s.Inventory, access.ItemName(id))
	}

	keys := make([]string, 0, len(g.items))
	for k := range g.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id := g.items[k]
		s.Items = append(s.Items, ItemSummary{Key: k, ID: int(id), Name: access.ItemName(id)})
	}
	return s
}

// WriteSummary writes a summary as YAML with a comment header
func WriteSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(w, "# Floor %dx%d\n# Generated with seed: %d\n\n", s.Width, s.Height, s.Seed); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
