package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ForEachFloor calls fn with every record, packages included, oldest first.
// Iteration stops at the first error fn returns.
func (a *Archive) ForEachFloor(ctx context.Context, fn func(*FloorRecord) error) error {
	query := `SELECT id, seed, width, height, boss_keys, attempts, room_count, package, created_at
		FROM floors ORDER BY created_at, id`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read floors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec FloorRecord
		var pkg string
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Seed, &rec.Width, &rec.Height, &rec.BossKeys,
			&rec.Attempts, &rec.RoomCount, &pkg, &created); err != nil {
			return fmt.Errorf("failed to scan floor: %w", err)
		}
		rec.Package = json.RawMessage(pkg)
		rec.CreatedAt = time.UnixMilli(created).UTC()
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CopyStats counts the outcome of CopyFloors.
type CopyStats struct {
	Copied  int
	Skipped int
}

// CopyFloors copies every record from src into dst, keeping ids and
// timestamps. Records already in dst are skipped. With dryRun set nothing
// is written and every record counts as copied.
func CopyFloors(ctx context.Context, dst, src *Archive, dryRun bool) (CopyStats, error) {
	var stats CopyStats
	err := src.ForEachFloor(ctx, func(rec *FloorRecord) error {
		if dryRun {
			stats.Copied++
			return nil
		}
		_, err := dst.SaveFloor(ctx, rec)
		switch {
		case errors.Is(err, ErrDuplicate):
			stats.Skipped++
		case err != nil:
			return err
		default:
			stats.Copied++
		}
		return nil
	})
	return stats, err
}
