package app

import (
	"context"

	"goinsight/internal/errors"
	"goinsight/models"
	"goinsight/ports"
)

// AggregateProvider serves aggregate figures over the stored records
type AggregateProvider struct {
	repo ports.RecordRepository
}

// NewAggregateProvider creates an aggregate provider
func NewAggregateProvider(repo ports.RecordRepository) *AggregateProvider {
	return &AggregateProvider{repo: repo}
}

// ProvideSummary returns count/avg/min/max over the records table
func (p *AggregateProvider) ProvideSummary(ctx context.Context) (*models.RecordSummary, error) {
	summary, err := p.repo.Summarize(ctx)
	if err != nil {
		return nil, errors.ProviderFailure(
			"failed to aggregate records",
			map[string]any{"aggregate": "summary"},
			err,
		)
	}
	return summary, nil
}

// ProvideValues returns every stored value, ordered by record id
func (p *AggregateProvider) ProvideValues(ctx context.Context) ([]float64, error) {
	values, err := p.repo.Values(ctx)
	if err != nil {
		return nil, errors.ProviderFailure(
			"failed to load record values",
			map[string]any{"aggregate": "values"},
			err,
		)
	}
	return values, nil
}
