package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
)

// postgresTestConfig returns a PostgreSQL config when FLOORFORGE_TEST_POSTGRES
// is set. Connection settings come from FLOORFORGE_TEST_POSTGRES_HOST, _PORT,
// _USER, _PASSWORD and _DATABASE.
func postgresTestConfig(t *testing.T) Config {
	if os.Getenv("FLOORFORGE_TEST_POSTGRES") == "" {
		t.Skip("Skipping PostgreSQL test: FLOORFORGE_TEST_POSTGRES not set")
	}

	p := DefaultPostgresConfig()
	p.User = "floorforge"
	p.Password = "floorforge"
	p.Database = "floorforge_test"
	if v := os.Getenv("FLOORFORGE_TEST_POSTGRES_HOST"); v != "" {
		p.Host = v
	}
	if v := os.Getenv("FLOORFORGE_TEST_POSTGRES_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &p.Port)
	}
	if v := os.Getenv("FLOORFORGE_TEST_POSTGRES_USER"); v != "" {
		p.User = v
	}
	if v := os.Getenv("FLOORFORGE_TEST_POSTGRES_PASSWORD"); v != "" {
		p.Password = v
	}
	if v := os.Getenv("FLOORFORGE_TEST_POSTGRES_DATABASE"); v != "" {
		p.Database = v
	}
	return Config{Driver: string(DialectPostgres), Postgres: p}
}

func TestPostgresRoundTrip(t *testing.T) {
	a, err := OpenWithConfig(postgresTestConfig(t))
	if err != nil {
		t.Fatalf("OpenWithConfig failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	id, err := a.SaveFloor(ctx, &FloorRecord{Seed: 7, Width: 5, Height: 5, Package: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("SaveFloor failed: %v", err)
	}
	t.Cleanup(func() { a.DeleteFloor(ctx, id) })

	got, err := a.GetFloor(ctx, id)
	if err != nil {
		t.Fatalf("GetFloor failed: %v", err)
	}
	if got.Seed != 7 {
		t.Errorf("Seed = %d, want 7", got.Seed)
	}
}
