package wfc

import (
	"testing"

	"github.com/lawnchairsociety/floorforge/internal/geom"
)

func TestVariantWalls(t *testing.T) {
	seen := make(map[geom.Walls]bool)
	for v := 0; v < NumVariants; v++ {
		w := VariantWalls(v)
		if seen[w] {
			t.Errorf("variant %d duplicates walls %v", v, w)
		}
		seen[w] = true

		if got := VariantOf(w); got != v {
			t.Errorf("VariantOf(VariantWalls(%d)) = %d", v, got)
		}
	}

	empty := VariantWalls(EmptyVariant)
	if empty.DoorCount() != 0 {
		t.Errorf("empty variant has %d doors", empty.DoorCount())
	}
	if VariantWalls(0).DoorCount() != 4 {
		t.Error("variant 0 should be doors on every side")
	}
}

func TestOptionSet(t *testing.T) {
	if AllOptions.Len() != NumVariants {
		t.Errorf("AllOptions.Len() = %d, want %d", AllOptions.Len(), NumVariants)
	}

	var o OptionSet = 1<<3 | 1<<7
	if !o.Has(3) || !o.Has(7) || o.Has(0) {
		t.Errorf("Has mismatch for %016b", o)
	}
	got := o.Variants()
	if len(got) != 2 || got[0] != 3 || got[1] != 7 {
		t.Errorf("Variants() = %v, want [3 7]", got)
	}

	noRightDoor := AllOptions.Filter(func(w geom.Walls) bool { return w[geom.Right] != geom.Door })
	if noRightDoor.Len() != NumVariants/2 {
		t.Errorf("filtered set has %d variants, want %d", noRightDoor.Len(), NumVariants/2)
	}
}

func TestStartOptions(t *testing.T) {
	opts := startOptions()
	if opts.Len() != 3 {
		t.Fatalf("start options = %v, want 3 variants", opts.Variants())
	}
	if opts.Has(EmptyVariant) {
		t.Error("start options include the empty variant")
	}
	for _, v := range opts.Variants() {
		w := VariantWalls(v)
		if w[geom.Up] != geom.Wall || w[geom.Down] != geom.Wall {
			t.Errorf("start variant %d has walls %v", v, w)
		}
	}
}

func TestTileSetDoor(t *testing.T) {
	tile := &Tile{Walls: VariantWalls(EmptyVariant)}
	tile.SetDoor(geom.Left, true)
	if !tile.HasDoor(geom.Left) {
		t.Error("expected a door on the left")
	}
	tile.SetDoor(geom.Left, false)
	if tile.HasDoor(geom.Left) {
		t.Error("expected the left door closed")
	}
}
