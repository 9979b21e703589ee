package app

import (
	"context"
	"database/sql"
	stderrors "errors"

	"goinsight/domain/analysis"
	"goinsight/internal/errors"
	"goinsight/models"
	"goinsight/ports"

	"golang.org/x/sync/errgroup"
)

// batchFetchLimit bounds concurrent record lookups in ProvideMany
const batchFetchLimit = 8

// RecordProvider resolves stored records into provider outputs
type RecordProvider struct {
	repo ports.RecordRepository
}

// NewRecordProvider creates a record provider over a repository handle
func NewRecordProvider(repo ports.RecordRepository) *RecordProvider {
	return &RecordProvider{repo: repo}
}

// Provide validates the input, resolves the record, and converts it to a
// domain-shaped output. A lookup miss surfaces as NOT_FOUND and is never
// re-wrapped; every other failure becomes a PROVIDER_ERROR carrying the
// identifier under lookup.
func (p *RecordProvider) Provide(ctx context.Context, input analysis.ProviderInput) (*analysis.ProviderOutput, error) {
	if input.DataID <= 0 {
		return nil, errors.Validationf("data_id must be positive, got %d", input.DataID)
	}

	rec, err := p.repo.GetByID(ctx, input.DataID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) || errors.IsNotFound(err) {
			return nil, errors.NotFound("record", map[string]any{"data_id": input.DataID})
		}
		return nil, errors.ProviderFailure(
			"failed to provide data",
			map[string]any{"data_id": input.DataID},
			err,
		)
	}

	return recordToOutput(rec), nil
}

// ProvideMany resolves a batch of records, preserving input-id ordering.
// The batch fails as a whole on the first error.
func (p *RecordProvider) ProvideMany(ctx context.Context, ids []int64) ([]analysis.ProviderOutput, error) {
	outputs := make([]analysis.ProviderOutput, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchFetchLimit)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			out, err := p.Provide(ctx, analysis.ProviderInput{DataID: id})
			if err != nil {
				return err
			}
			outputs[i] = *out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outputs, nil
}

func recordToOutput(rec *models.Record) *analysis.ProviderOutput {
	return &analysis.ProviderOutput{
		ID:    rec.ID,
		Name:  rec.Name,
		Value: rec.Value,
		Score: rec.Score,
	}
}
