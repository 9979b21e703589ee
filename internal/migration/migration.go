package migration

import (
	"context"

	"goinsight/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRecordsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create records table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createRecordsTable(ctx context.Context, db *sqlx.DB) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS records (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if db.DriverName() == "sqlite3" {
		stmt = `
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}
	_, err := db.ExecContext(ctx, stmt)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_records_name ON records (name)",
		"CREATE INDEX IF NOT EXISTS idx_records_created_at ON records (created_at)",
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return err
		}
	}

	return nil
}

// SeedDemoRecords inserts a handful of rows so a fresh development
// database has something to analyze. It is only called in dev mode.
func SeedDemoRecords(ctx context.Context, db *sqlx.DB) error {
	var count int64
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM records"); err != nil {
		return errors.Wrap(err, "failed to count records")
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		name  string
		value float64
		score float64
	}{
		{"Baseline Sample", 42.5, 0.85},
		{"Low Signal Sample", 12.0, 0.25},
		{"High Value Sample", 95.0, 0.92},
		{"Midrange Sample", 55.5, 0.61},
	}

	for _, s := range seed {
		if _, err := db.ExecContext(ctx,
			db.Rebind("INSERT INTO records (name, value, score) VALUES (?, ?, ?)"),
			s.name, s.value, s.score); err != nil {
			return errors.Wrap(err, "failed to seed records")
		}
	}

	return nil
}
