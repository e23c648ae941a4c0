// Command floorgen generates one floor with the room-placement generator
// and writes the level editor package.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/archive"
	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/cli"
	"github.com/lawnchairsociety/floorforge/internal/config"
	"github.com/lawnchairsociety/floorforge/internal/floor"
	"github.com/lawnchairsociety/floorforge/internal/logger"
	"github.com/lawnchairsociety/floorforge/internal/mapfmt"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	catalogPath := flag.String("catalog", "", "Room catalog JSON (default: generator.catalog_path)")
	width := flag.Int("width", 0, "Floor width in tiles (prompted when omitted)")
	height := flag.Int("height", 0, "Floor height in tiles (prompted when omitted)")
	seed := flag.Int64("seed", 0, "Base seed (default: random based on current time)")
	keys := flag.Int("keys", -1, "Boss keys required (default: round(width/4 - 1))")
	inventory := flag.String("inventory", "", "Comma-separated starting items, by name or id")
	out := flag.String("out", "floor.json", "Output path for the editor package")
	editorOut := flag.String("editor-out", "", "Optional output path for the editor tile list")
	summaryOut := flag.String("summary-out", "", "Optional output path for a YAML summary")
	archiveFloor := flag.Bool("archive", false, "Store the floor in the configured archive")
	preview := flag.Bool("preview", false, "Print an ASCII preview of the floor")
	maxAttempts := flag.Int("max-attempts", 0, "Attempts before giving up (default: generator.max_attempts)")
	parallel := flag.Int("parallel", -1, "Attempts run at once (default: generator.parallel)")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		cli.Fatalf("failed to initialize logging: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	gen := cfg.Generator
	if *catalogPath != "" {
		gen.CatalogPath = *catalogPath
	}
	if *maxAttempts > 0 {
		gen.MaxAttempts = *maxAttempts
	}
	if *parallel >= 0 {
		gen.Parallel = *parallel
	}

	w, h := *width, *height
	if w == 0 || h == 0 {
		if !cli.Interactive() {
			fmt.Fprintln(os.Stderr, "Error: -width and -height are required when stdin is not a terminal")
			flag.Usage()
			os.Exit(1)
		}
		if w == 0 {
			if w, err = cli.PromptInt(os.Stdin, os.Stdout, "Width", 2, gen.MaxWidth); err != nil {
				cli.Fatalf("%v", err)
			}
		}
		if h == 0 {
			if h, err = cli.PromptInt(os.Stdin, os.Stdout, "Height", 1, gen.MaxHeight); err != nil {
				cli.Fatalf("%v", err)
			}
		}
	}
	if cw, ch := gen.ClampSize(w, h); cw != w || ch != h {
		cli.Warnf("size %dx%d exceeds the %dx%d maximum, using %dx%d", w, h, gen.MaxWidth, gen.MaxHeight, cw, ch)
		w, h = cw, ch
	}

	bossKeys := *keys
	if bossKeys < 0 {
		bossKeys = floor.DefaultBossKeys(w)
	}

	start, err := access.ParseItems(*inventory)
	if err != nil {
		cli.Fatalf("invalid -inventory: %v", err)
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	cat, err := catalog.Load(gen.CatalogPath)
	if err != nil {
		cli.Fatalf("failed to load catalog %s: %v", gen.CatalogPath, err)
	}
	logger.Info("catalog loaded", "path", gen.CatalogPath, "rooms", cat.Len())

	opts, err := gen.Options(w, h, baseSeed)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	opts.StartInventory = start

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Generating %dx%d floor with %d boss key(s) (seed: %d)\n", w, h, bossKeys, baseSeed)
	runner := &floor.Runner{
		Catalog:     cat,
		Options:     opts,
		MaxAttempts: gen.MaxAttempts,
		Parallel:    gen.Parallel,
	}
	result, err := runner.Run(ctx, bossKeys)
	if err != nil {
		if errors.Is(err, floor.ErrAttemptsExhausted) {
			cli.Fatalf("no floor found: %v\nTry a larger floor, fewer keys or more attempts.", err)
		}
		cli.Fatalf("generation failed: %v", err)
	}

	stats := result.Generator.Stats()
	cli.OK("Floor generated")
	cli.Field("attempts", result.Attempt+1)
	cli.Field("seed", result.Seed)
	cli.Field("rooms", cli.Count(stats.Rooms))
	cli.Field("tiles", cli.Count(stats.Tiles))
	cli.Field("items", cli.Count(stats.Items))
	cli.Field("iterations", cli.Count(stats.Iterations))
	cli.Field("duration", result.Duration.Round(time.Millisecond))

	if *preview {
		if err := mapfmt.Render(os.Stdout, result.Package.MapData); err != nil {
			cli.Fatalf("failed to render preview: %v", err)
		}
	}

	n, err := cli.WriteJSON(*out, result.Package)
	if err != nil {
		cli.Fatalf("failed to write %s: %v", *out, err)
	}
	cli.Wrote(*out, n)

	if *editorOut != "" {
		tiles, err := result.Package.EditorTiles()
		if err != nil {
			cli.Fatalf("failed to build editor tiles: %v", err)
		}
		n, err := cli.WriteJSON(*editorOut, tiles)
		if err != nil {
			cli.Fatalf("failed to write %s: %v", *editorOut, err)
		}
		cli.Wrote(*editorOut, n)
	}

	if *summaryOut != "" {
		var buf bytes.Buffer
		if err := floor.WriteSummary(&buf, result.Generator.Summary()); err != nil {
			cli.Fatalf("failed to build summary: %v", err)
		}
		if err := cli.WriteFile(*summaryOut, buf.Bytes()); err != nil {
			cli.Fatalf("failed to write %s: %v", *summaryOut, err)
		}
		cli.Wrote(*summaryOut, buf.Len())
	}

	if *archiveFloor {
		id, err := archiveResult(ctx, cfg.Archive.Config, result, w, h, bossKeys)
		if err != nil {
			cli.Fatalf("failed to archive floor: %v", err)
		}
		cli.Field("archived", id)
	}
}

func archiveResult(ctx context.Context, cfg archive.Config, result *floor.Result, width, height, bossKeys int) (string, error) {
	a, err := archive.OpenWithConfig(cfg)
	if err != nil {
		return "", err
	}
	defer a.Close()

	raw, err := json.Marshal(result.Package)
	if err != nil {
		return "", err
	}
	return a.SaveFloor(ctx, &archive.FloorRecord{
		Seed:      result.Seed,
		Width:     width,
		Height:    height,
		BossKeys:  bossKeys,
		Attempts:  result.Attempt + 1,
		RoomCount: result.Generator.Stats().Rooms,
		Package:   raw,
	})
}
