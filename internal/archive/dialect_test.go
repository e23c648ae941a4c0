package archive

import (
	"errors"
	"testing"
	"time"
)

func TestNewDialect(t *testing.T) {
	if _, ok := NewDialect(DialectSQLite).(*SQLiteDialect); !ok {
		t.Error("expected *SQLiteDialect")
	}
	if _, ok := NewDialect(DialectPostgres).(*PostgresDialect); !ok {
		t.Error("expected *PostgresDialect")
	}
	if _, ok := NewDialect("unknown").(*SQLiteDialect); !ok {
		t.Error("unknown dialect should default to SQLite")
	}
}

func TestQueryBuilder(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite unchanged", &SQLiteDialect{}, "SELECT * FROM floors WHERE id = ? AND seed = ?", "SELECT * FROM floors WHERE id = ? AND seed = ?"},
		{"postgres numbered", &PostgresDialect{}, "SELECT * FROM floors WHERE id = ? AND seed = ?", "SELECT * FROM floors WHERE id = $1 AND seed = $2"},
		{"postgres no placeholders", &PostgresDialect{}, "SELECT COUNT(*) FROM floors", "SELECT COUNT(*) FROM floors"},
		{"postgres insert", &PostgresDialect{}, "VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewQueryBuilder(tt.dialect).Build(tt.query); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"sqlite nil", &SQLiteDialect{}, nil, false},
		{"sqlite unique", &SQLiteDialect{}, errors.New("UNIQUE constraint failed: floors.id"), true},
		{"sqlite other", &SQLiteDialect{}, errors.New("no such table"), false},
		{"postgres nil", &PostgresDialect{}, nil, false},
		{"postgres duplicate", &PostgresDialect{}, errors.New(`pq: duplicate key value violates unique constraint "floors_pkey"`), true},
		{"postgres code", &PostgresDialect{}, errors.New("SQLSTATE 23505"), true},
		{"postgres other", &PostgresDialect{}, errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := DefaultPostgresConfig()
	p.User = "forge"
	p.Password = "secret"
	p.Database = "floors"

	want := "host=localhost port=5432 user=forge password=secret dbname=floors sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if p.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 5m", p.ConnMaxLifetime)
	}
}
