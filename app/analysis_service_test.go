package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goinsight/domain/analysis"
	"goinsight/internal/errors"
	"goinsight/models"
)

func newTestService(repo *mockRecordRepository) *AnalysisService {
	return NewAnalysisService(
		NewRecordProvider(repo),
		NewAnalysisCalculator(),
		NewResponseFormatter(),
		zerolog.Nop(),
	)
}

func TestExecuteInlineRequest(t *testing.T) {
	svc := newTestService(new(mockRecordRepository))

	result := svc.Execute(context.Background(), analysis.Request{
		Kind:  analysis.KindStatistical,
		Value: 10.0,
	}, nil)

	require.True(t, result.OK())
	resp := result.Data()
	assert.Equal(t, analysis.KindStatistical, resp.Kind)
	assert.InDelta(t, 10.0, resp.Metrics["mean"], 1e-9)
	assert.Nil(t, resp.RequestedBy)
}

func TestExecuteResolvesRecordThroughProvider(t *testing.T) {
	repo := new(mockRecordRepository)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&models.Record{
		ID: 7, Name: "Baseline Sample", Value: 42.5, Score: 0.85,
	}, nil)

	svc := newTestService(repo)
	dataID := int64(7)
	result := svc.Execute(context.Background(), analysis.Request{
		Kind:           analysis.KindStatistical,
		DataID:         &dataID,
		IncludeDetails: true,
	}, nil)

	require.True(t, result.OK())
	resp := result.Data()
	assert.Equal(t, "Baseline Sample", resp.Name)
	require.NotNil(t, resp.DataID)
	assert.Equal(t, int64(7), *resp.DataID)
	// Value came from the record, not the (zero) inline field.
	assert.InDelta(t, 42.5, resp.Metrics["mean"], 1e-9)
	require.NotNil(t, resp.Details)
	assert.InDelta(t, 42.5, resp.Details["source_value"].(float64), 1e-9)
}

func TestExecuteShortCircuitsOnProviderFailure(t *testing.T) {
	repo := new(mockRecordRepository)
	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, fmt.Errorf("%w", errors.NotFound("record", map[string]any{"data_id": int64(404)})))

	svc := newTestService(repo)
	dataID := int64(404)
	result := svc.Execute(context.Background(), analysis.Request{
		Kind:   analysis.KindAnomaly,
		DataID: &dataID,
	}, nil)

	require.False(t, result.OK())
	assert.Equal(t, "record not found", result.Message())
	assert.Equal(t, int64(404), result.Details()["data_id"])
}

func TestExecuteConvertsCalculatorFailure(t *testing.T) {
	svc := newTestService(new(mockRecordRepository))

	result := svc.Execute(context.Background(), analysis.Request{
		Kind:  analysis.KindStatistical,
		Value: -5.0,
	}, nil)

	require.False(t, result.OK())
	assert.Equal(t, "value must be non-negative", result.Message())
}

func TestExecuteNeverPanics(t *testing.T) {
	svc := newTestService(new(mockRecordRepository))
	score := 2.0

	assert.NotPanics(t, func() {
		result := svc.Execute(context.Background(), analysis.Request{
			Kind:  analysis.Kind("unknown"),
			Value: 1.0,
			Score: &score,
		}, nil)
		assert.False(t, result.OK())
	})
}

func TestExecuteAttachesIdentity(t *testing.T) {
	svc := newTestService(new(mockRecordRepository))
	identity := &analysis.Identity{UserID: uuid.New(), Name: "analyst"}

	result := svc.Execute(context.Background(), analysis.Request{
		Kind:  analysis.KindTrend,
		Value: 5.0,
	}, identity)

	require.True(t, result.OK())
	require.NotNil(t, result.Data().RequestedBy)
	assert.Equal(t, identity.UserID, *result.Data().RequestedBy)
}

func TestLookup(t *testing.T) {
	repo := new(mockRecordRepository)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&models.Record{ID: 7, Name: "Baseline Sample"}, nil)

	svc := newTestService(repo)
	result := svc.Lookup(context.Background(), 7)

	require.True(t, result.OK())
	assert.Equal(t, "Baseline Sample", result.Data().Name)
}
