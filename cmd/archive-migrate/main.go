// archive-migrate copies archived floors from a SQLite archive into
// PostgreSQL. Floors already present in the target are skipped, so the
// tool can be re-run.
//
// Usage:
//
//	go run ./cmd/archive-migrate \
//	    -sqlite data/floors.db \
//	    -pg-host localhost \
//	    -pg-user floorforge \
//	    -pg-password floorforge \
//	    -pg-database floorforge
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/floorforge/internal/archive"
)

func main() {
	defaults := archive.DefaultPostgresConfig()
	sqlitePath := flag.String("sqlite", "data/floors.db", "Path to the SQLite archive")
	pgHost := flag.String("pg-host", defaults.Host, "PostgreSQL host")
	pgPort := flag.Int("pg-port", defaults.Port, "PostgreSQL port")
	pgUser := flag.String("pg-user", "floorforge", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "floorforge", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", defaults.SSLMode, "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite archive not found: %v", err)
	}

	log.Printf("Opening SQLite archive: %s", *sqlitePath)
	src, err := archive.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite archive: %v", err)
	}
	defer src.Close()

	pg := defaults
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL archive: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := archive.OpenWithConfig(archive.Config{Driver: string(archive.DialectPostgres), Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL archive: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := archive.CopyFloors(ctx, dst, src, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d floors: %v", stats.Copied, err)
	}

	log.Printf("Migration complete: %d floors copied, %d already present", stats.Copied, stats.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
