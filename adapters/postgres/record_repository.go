package postgres

import (
	"context"
	"database/sql"
	"time"

	"goinsight/models"
	"goinsight/ports"

	"github.com/jmoiron/sqlx"
)

// RecordRepositoryImpl implements RecordRepository over sqlx. It works
// against PostgreSQL in production and sqlite in development mode; the
// queries are rebound per driver.
type RecordRepositoryImpl struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sqlx.DB) ports.RecordRepository {
	return &RecordRepositoryImpl{db: db}
}

// GetByID retrieves a single record. A missing row surfaces as
// sql.ErrNoRows for the provider to classify.
func (r *RecordRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	var rec models.Record
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`
		SELECT id, name, value, score, created_at, updated_at
		FROM records
		WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns a page of records ordered by id, plus the total count
func (r *RecordRepositoryImpl) List(ctx context.Context, skip, limit int) ([]models.Record, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM records"); err != nil {
		return nil, 0, err
	}

	records := []models.Record{}
	err := r.db.SelectContext(ctx, &records, r.db.Rebind(`
		SELECT id, name, value, score, created_at, updated_at
		FROM records
		ORDER BY id ASC
		LIMIT ? OFFSET ?`), limit, skip)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Create inserts a record and returns it with its assigned id
func (r *RecordRepositoryImpl) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	now := time.Now().UTC()
	created := *rec
	created.CreatedAt = now
	created.UpdatedAt = now

	if r.db.DriverName() == "postgres" {
		err := r.db.QueryRowxContext(ctx, `
			INSERT INTO records (name, value, score, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			created.Name, created.Value, created.Score, created.CreatedAt, created.UpdatedAt,
		).Scan(&created.ID)
		if err != nil {
			return nil, err
		}
		return &created, nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO records (name, value, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`),
		created.Name, created.Value, created.Score, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	created.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update rewrites the mutable fields of a record
func (r *RecordRepositoryImpl) Update(ctx context.Context, rec *models.Record) (*models.Record, error) {
	updated := *rec
	updated.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE records
		SET name = ?, value = ?, score = ?, updated_at = ?
		WHERE id = ?`),
		updated.Name, updated.Value, updated.Score, updated.UpdatedAt, updated.ID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}
	return &updated, nil
}

// Delete removes a record by id
func (r *RecordRepositoryImpl) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM records WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Summarize computes aggregate figures over the records table
func (r *RecordRepositoryImpl) Summarize(ctx context.Context) (*models.RecordSummary, error) {
	var summary models.RecordSummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT
			COUNT(*) AS count,
			COALESCE(AVG(value), 0) AS avg_value,
			COALESCE(MIN(value), 0) AS min_value,
			COALESCE(MAX(value), 0) AS max_value
		FROM records`)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Values returns every stored value ordered by id, for series analysis
func (r *RecordRepositoryImpl) Values(ctx context.Context) ([]float64, error) {
	values := []float64{}
	if err := r.db.SelectContext(ctx, &values, "SELECT value FROM records ORDER BY id ASC"); err != nil {
		return nil, err
	}
	return values, nil
}
