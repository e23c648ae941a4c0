package archive

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "nested", "floors.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "floors.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("archive file was not created")
	}

	var count int
	if err := a.DB().QueryRow("SELECT COUNT(*) FROM floors").Scan(&count); err != nil {
		t.Errorf("floors table missing: %v", err)
	}
}

func TestOpenWithConfigErrors(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "oracle"}); err == nil {
		t.Error("expected an error for an unknown driver")
	}
	if _, err := OpenWithConfig(Config{Driver: "sqlite"}); err == nil {
		t.Error("expected an error for a missing sqlite path")
	}
}

func TestFloorRoundTrip(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	pkg := json.RawMessage(`{"RoomData":[[],[409,0,0]],"BossData":1}`)
	rec := &FloorRecord{Seed: 42, Width: 10, Height: 8, BossKeys: 2, Attempts: 3, RoomCount: 1, Package: pkg}

	id, err := a.SaveFloor(ctx, rec)
	if err != nil {
		t.Fatalf("SaveFloor failed: %v", err)
	}
	if id == "" || rec.ID != id {
		t.Fatalf("SaveFloor returned id %q, record has %q", id, rec.ID)
	}

	got, err := a.GetFloor(ctx, id)
	if err != nil {
		t.Fatalf("GetFloor failed: %v", err)
	}
	if got.Seed != 42 || got.Width != 10 || got.Height != 8 || got.BossKeys != 2 || got.Attempts != 3 || got.RoomCount != 1 {
		t.Errorf("GetFloor = %+v", got)
	}
	if string(got.Package) != string(pkg) {
		t.Errorf("package = %s, want %s", got.Package, pkg)
	}
	if d := got.CreatedAt.Sub(rec.CreatedAt); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}

	if _, err := a.SaveFloor(ctx, &FloorRecord{ID: id, Package: pkg}); err == nil {
		t.Error("expected an error saving a duplicate id")
	}
	if _, err := a.SaveFloor(ctx, &FloorRecord{}); err == nil {
		t.Error("expected an error saving a record without a package")
	}
}

func TestListAndDeleteFloors(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := &FloorRecord{Seed: int64(i), Width: 4, Height: 4, Package: json.RawMessage(`{}`), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if _, err := a.SaveFloor(ctx, rec); err != nil {
			t.Fatalf("SaveFloor failed: %v", err)
		}
	}

	list, err := a.ListFloors(ctx, 2)
	if err != nil {
		t.Fatalf("ListFloors failed: %v", err)
	}
	if len(list) != 2 || list[0].Seed != 2 || list[1].Seed != 1 {
		t.Fatalf("ListFloors = %+v, want seeds 2 then 1", list)
	}
	if list[0].Package != nil {
		t.Error("ListFloors should not load packages")
	}

	all, err := a.ListFloors(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListFloors(0) = %d records, %v", len(all), err)
	}

	if err := a.DeleteFloor(ctx, list[0].ID); err != nil {
		t.Fatalf("DeleteFloor failed: %v", err)
	}
	if _, err := a.GetFloor(ctx, list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := a.DeleteFloor(ctx, list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
