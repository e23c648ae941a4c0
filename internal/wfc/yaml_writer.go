package wfc

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// WriteFloorYAML writes a floor as YAML with tiles in scan order
func WriteFloorYAML(w io.Writer, f *Floor) error {
	fmt.Fprintf(w, "# WFC floor %dx%d\n", f.Width, f.Height)
	fmt.Fprintf(w, "# Generated with seed: %d\n", f.Seed)
	fmt.Fprintf(w, "# Tile count: %d\n\n", len(f.Tiles))

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	addIntField(doc, "width", f.Width)
	addIntField(doc, "height", f.Height)
	addIntField(doc, "seed", int(f.Seed))
	addCoordField(doc, "start", f.Start)
	addCoordField(doc, "boss", f.Boss)

	tiles := &yaml.Node{Kind: yaml.SequenceNode}
	for _, t := range f.Tiles {
		tiles.Content = append(tiles.Content, tileNode(t))
	}
	doc.Content = append(doc.Content, scalar("tiles"), tiles)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func tileNode(t *Tile) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	addIntField(node, "x", t.Pos.X)
	addIntField(node, "y", t.Pos.Y)

	doors := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, dir := range geom.AllDirections() {
		if t.HasDoor(dir) {
			doors.Content = append(doors.Content, scalar(dir.String()))
		}
	}
	node.Content = append(node.Content, scalar("doors"), doors)
	return node
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		scalar(key),
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)},
	)
}

func addCoordField(node *yaml.Node, key string, c geom.Coord) {
	value := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	addIntField(value, "x", c.X)
	addIntField(value, "y", c.Y)
	node.Content = append(node.Content, scalar(key), value)
}
