package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no floor has the requested id.
	ErrNotFound = errors.New("archive: floor not found")
	// ErrDuplicate is returned when a record's id is already stored.
	ErrDuplicate = errors.New("archive: floor already exists")
)

// DefaultListLimit caps ListFloors when no positive limit is given.
const DefaultListLimit = 50

// FloorRecord is one archived generation.
type FloorRecord struct {
	ID        string          `json:"id"`
	Seed      int64           `json:"seed"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	BossKeys  int             `json:"boss_keys"`
	Attempts  int             `json:"attempts"`
	RoomCount int             `json:"room_count"`
	Package   json.RawMessage `json:"package,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaveFloor stores a record and returns its id. A new uuid is assigned
// when the record has none, and CreatedAt defaults to now.
func (a *Archive) SaveFloor(ctx context.Context, rec *FloorRecord) (string, error) {
	if len(rec.Package) == 0 {
		return "", fmt.Errorf("archive: floor record has no package")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := a.qb.Build(`INSERT INTO floors
		(id, seed, width, height, boss_keys, attempts, room_count, package, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := a.db.ExecContext(ctx, query,
		rec.ID, rec.Seed, rec.Width, rec.Height, rec.BossKeys, rec.Attempts, rec.RoomCount,
		string(rec.Package), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if a.dialect.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %s", ErrDuplicate, rec.ID)
		}
		return "", fmt.Errorf("failed to save floor: %w", err)
	}
	return rec.ID, nil
}

// GetFloor loads a record including its package.
func (a *Archive) GetFloor(ctx context.Context, id string) (*FloorRecord, error) {
	query := a.qb.Build(`SELECT id, seed, width, height, boss_keys, attempts, room_count, package, created_at
		FROM floors WHERE id = ?`)

	var rec FloorRecord
	var pkg string
	var created int64
	err := a.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Seed, &rec.Width, &rec.Height, &rec.BossKeys, &rec.Attempts, &rec.RoomCount,
		&pkg, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load floor: %w", err)
	}

	rec.Package = json.RawMessage(pkg)
	rec.CreatedAt = time.UnixMilli(created).UTC()
	return &rec, nil
}

// ListFloors returns the newest records first, without packages.
func (a *Archive) ListFloors(ctx context.Context, limit int) ([]FloorRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := a.qb.Build(`SELECT id, seed, width, height, boss_keys, attempts, room_count, created_at
		FROM floors ORDER BY created_at DESC, id LIMIT ?`)
	rows, err := a.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	defer rows.Close()

	var out []FloorRecord
	for rows.Next() {
		var rec FloorRecord
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Seed, &rec.Width, &rec.Height, &rec.BossKeys,
			&rec.Attempts, &rec.RoomCount, &created); err != nil {
			return nil, fmt.Errorf("failed to scan floor: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteFloor removes a record.
func (a *Archive) DeleteFloor(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, a.qb.Build(`DELETE FROM floors WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete floor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete floor: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
