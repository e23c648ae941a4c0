// Command wfcgen generates a square floor with wave function collapse and
// writes it as YAML.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/floorforge/internal/cli"
	"github.com/lawnchairsociety/floorforge/internal/mapfmt"
	"github.com/lawnchairsociety/floorforge/internal/wfc"
)

func main() {
	size := flag.Int("size", 0, fmt.Sprintf("Side length of the square floor (1-%d, prompted when omitted)", wfc.MaxSize))
	seed := flag.Int64("seed", 0, "Base seed (default: random based on current time)")
	retries := flag.Int("retries", wfc.DefaultMaxRetries, "Attempts before giving up")
	out := flag.String("out", "floor.yaml", "Output path for the floor YAML")
	editorOut := flag.String("editor-out", "", "Optional output path for the editor tile list")
	preview := flag.Bool("preview", false, "Print an ASCII preview of the floor")
	flag.Parse()

	n := *size
	if n == 0 {
		if !cli.Interactive() {
			fmt.Fprintln(os.Stderr, "Error: -size is required when stdin is not a terminal")
			flag.Usage()
			os.Exit(1)
		}
		var err error
		if n, err = cli.PromptInt(os.Stdin, os.Stdout, "Size", 1, wfc.MaxSize); err != nil {
			cli.Fatalf("%v", err)
		}
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := wfc.DefaultConfig(n, baseSeed)
	cfg.MaxRetries = *retries

	begin := time.Now()
	floor, err := wfc.NewGenerator(cfg).Generate(ctx)
	if err != nil {
		cli.Fatalf("generation failed: %v", err)
	}

	cli.OK("Floor generated")
	cli.Field("attempts", floor.Attempt+1)
	cli.Field("seed", floor.Seed)
	cli.Field("tiles", cli.Count(len(floor.Tiles)))
	cli.Field("start", fmt.Sprintf("(%d, %d)", floor.Start.X, floor.Start.Y))
	cli.Field("boss", fmt.Sprintf("(%d, %d)", floor.Boss.X, floor.Boss.Y))
	cli.Field("duration", time.Since(begin).Round(time.Millisecond))

	if *preview {
		if err := mapfmt.Render(os.Stdout, floor.MapData()); err != nil {
			cli.Fatalf("failed to render preview: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := wfc.WriteFloorYAML(&buf, floor); err != nil {
		cli.Fatalf("failed to encode floor: %v", err)
	}
	if err := cli.WriteFile(*out, buf.Bytes()); err != nil {
		cli.Fatalf("failed to write %s: %v", *out, err)
	}
	cli.Wrote(*out, buf.Len())

	if *editorOut != "" {
		written, err := cli.WriteJSON(*editorOut, floor.EditorTiles())
		if err != nil {
			cli.Fatalf("failed to write %s: %v", *editorOut, err)
		}
		cli.Wrote(*editorOut, written)
	}
}
