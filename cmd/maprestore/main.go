// Command maprestore rebuilds the level editor tile list from an exported
// floor package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/floorforge/internal/cli"
	"github.com/lawnchairsociety/floorforge/internal/floor"
)

func main() {
	in := flag.String("in", "", "Exported package JSON")
	out := flag.String("out", "editor.json", "Output path for the editor tile list")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	var pkg floor.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		cli.Fatalf("failed to parse %s: %v", *in, err)
	}
	if pkg.MapData == nil {
		cli.Fatalf("%s has no MapData", *in)
	}

	tiles, err := pkg.EditorTiles()
	if err != nil {
		cli.Fatalf("failed to decode map data: %v", err)
	}
	n, err := cli.WriteJSON(*out, tiles)
	if err != nil {
		cli.Fatalf("failed to write %s: %v", *out, err)
	}
	cli.OK("Restored %s tiles from a %dx%d map", cli.Count(len(tiles)), pkg.MapData.Width, pkg.MapData.Height)
	cli.Wrote(*out, n)
}
