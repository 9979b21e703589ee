package ports

import (
	"context"

	"goinsight/models"
)

// RecordRepository is the data-access handle the provider depends on.
// Implementations surface a lookup miss as sql.ErrNoRows; classification
// into the error taxonomy happens in the provider, not here.
type RecordRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Record, error)
	List(ctx context.Context, skip, limit int) ([]models.Record, int64, error)
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, rec *models.Record) (*models.Record, error)
	Delete(ctx context.Context, id int64) error
	Summarize(ctx context.Context) (*models.RecordSummary, error)
	Values(ctx context.Context) ([]float64, error)
}
