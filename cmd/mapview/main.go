// Command mapview prints an ASCII preview of an exported floor package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/floorforge/internal/floor"
	"github.com/lawnchairsociety/floorforge/internal/mapfmt"
)

func main() {
	inputFile := flag.String("in", "floor.json", "Exported package JSON")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	var pkg floor.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing package: %v\n", err)
		os.Exit(1)
	}
	if pkg.MapData == nil {
		fmt.Fprintf(os.Stderr, "Error: %s has no MapData\n", *inputFile)
		os.Exit(1)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "Floor %dx%d (%d rooms, %d items)\n",
		pkg.MapData.Width, pkg.MapData.Height, len(pkg.RoomData)-1, len(pkg.ItemData))
	output.WriteString(strings.Repeat("=", 40) + "\n")
	if err := mapfmt.Render(&output, pkg.MapData); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering map: %v\n", err)
		os.Exit(1)
	}
	if *showLegend {
		output.WriteString("\n" + mapfmt.Legend)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}
