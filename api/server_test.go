package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goinsight/app"
	"goinsight/internal/config"
	"goinsight/models"
)

// fakeRepo is an in-memory repository for boundary tests
type fakeRepo struct {
	records map[int64]models.Record
	nextID  int64
	failAll bool
}

func newFakeRepo(records ...models.Record) *fakeRepo {
	repo := &fakeRepo{records: map[int64]models.Record{}, nextID: 1}
	for _, rec := range records {
		repo.records[rec.ID] = rec
		if rec.ID >= repo.nextID {
			repo.nextID = rec.ID + 1
		}
	}
	return repo
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	if f.failAll {
		return nil, fmt.Errorf("storage offline")
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (f *fakeRepo) List(ctx context.Context, skip, limit int) ([]models.Record, int64, error) {
	if f.failAll {
		return nil, 0, fmt.Errorf("storage offline")
	}
	ids := make([]int64, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []models.Record{}
	for i, id := range ids {
		if i < skip || len(out) >= limit {
			continue
		}
		out = append(out, f.records[id])
	}
	return out, int64(len(f.records)), nil
}

func (f *fakeRepo) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	created := *rec
	created.ID = f.nextID
	f.nextID++
	f.records[created.ID] = created
	return &created, nil
}

func (f *fakeRepo) Update(ctx context.Context, rec *models.Record) (*models.Record, error) {
	if _, ok := f.records[rec.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	f.records[rec.ID] = *rec
	return rec, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) Summarize(ctx context.Context) (*models.RecordSummary, error) {
	summary := &models.RecordSummary{Count: int64(len(f.records))}
	first := true
	for _, rec := range f.records {
		summary.AvgValue += rec.Value
		if first || rec.Value < summary.MinValue {
			summary.MinValue = rec.Value
		}
		if first || rec.Value > summary.MaxValue {
			summary.MaxValue = rec.Value
		}
		first = false
	}
	if summary.Count > 0 {
		summary.AvgValue /= float64(summary.Count)
	}
	return summary, nil
}

func (f *fakeRepo) Values(ctx context.Context) ([]float64, error) {
	ids := make([]int64, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	values := make([]float64, 0, len(ids))
	for _, id := range ids {
		values = append(values, f.records[id].Value)
	}
	return values, nil
}

func newTestServer(repo *fakeRepo, debug bool) *Server {
	log := zerolog.Nop()
	provider := app.NewRecordProvider(repo)
	service := app.NewAnalysisService(provider, app.NewAnalysisCalculator(), app.NewResponseFormatter(), log)
	return NewServer(
		config.ServerConfig{
			Port:           "0",
			Environment:    "test",
			Debug:          debug,
			AllowedOrigins: []string{"*"},
		},
		service,
		repo,
		app.NewAggregateProvider(repo),
		app.NewDescriptiveCalculator(),
		app.NewScoreCalculator(app.DefaultScoreWeights()),
		log,
	)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeSuccess(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analysis", map[string]any{
		"analysis_kind": "statistical",
		"value":         10.0,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Metrics  map[string]float64 `json:"metrics"`
		Insights []string           `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 10.0, resp.Metrics["mean"], 1e-9)
	assert.Len(t, resp.Insights, 2)
}

func TestAnalyzeValidationFailureIs400(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analysis", map[string]any{
		"analysis_kind": "statistical",
		"value":         -1.0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "value must be non-negative", body.Error)
}

func TestAnalyzeMissingRecordIs404(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analysis", map[string]any{
		"analysis_kind": "statistical",
		"data_id":       404,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "record not found", body.Error)
	assert.EqualValues(t, 404, body.Details["data_id"])
}

func TestAnalyzeProviderFailureIs502(t *testing.T) {
	repo := newFakeRepo()
	repo.failAll = true
	srv := newTestServer(repo, false)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analysis", map[string]any{
		"analysis_kind": "trend",
		"data_id":       1,
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRecordCRUD(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	created := doJSON(t, srv, http.MethodPost, "/api/v1/records", recordPayload{
		Name: "New Sample", Value: 12.5, Score: 0.4,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var rec models.Record
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rec))
	assert.Equal(t, "New Sample", rec.Name)

	got := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/records/%d", rec.ID), nil)
	assert.Equal(t, http.StatusOK, got.Code)

	updated := doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/v1/records/%d", rec.ID), recordPayload{
		Name: "Renamed", Value: 13.0, Score: 0.5,
	})
	assert.Equal(t, http.StatusOK, updated.Code)

	deleted := doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/records/%d", rec.ID), nil)
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	missing := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/records/%d", rec.ID), nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCreateRecordValidation(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/records", recordPayload{
		Name: "Bad", Value: -1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRecordsPagination(t *testing.T) {
	repo := newFakeRepo(
		models.Record{ID: 1, Name: "A", Value: 1},
		models.Record{ID: 2, Name: "B", Value: 2},
		models.Record{ID: 3, Name: "C", Value: 3},
	)
	srv := newTestServer(repo, false)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/records?skip=1&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items    []models.Record `json:"items"`
		Total    int64           `json:"total"`
		Page     int             `json:"page"`
		PageSize int             `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "B", resp.Items[0].Name)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.Page)
}

func TestSummaryEndpoint(t *testing.T) {
	repo := newFakeRepo(
		models.Record{ID: 1, Value: 10},
		models.Record{ID: 2, Value: 30},
	)
	srv := newTestServer(repo, false)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/records/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.RecordSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 20.0, summary.AvgValue, 1e-9)
}

func TestStatsEndpoint(t *testing.T) {
	repo := newFakeRepo(
		models.Record{ID: 1, Value: 10},
		models.Record{ID: 2, Value: 20},
		models.Record{ID: 3, Value: 30},
	)
	srv := newTestServer(repo, false)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/records/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats app.DescriptiveStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 20.0, stats.Mean, 1e-9)
}

func TestScoreEndpoint(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/score", scoreRequest{
		Quality: 1.0, Performance: 0.5, Reliability: 0.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 0.55, resp["score"], 1e-9)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	for _, path := range []string{"/health", "/api/v1/analysis/health", "/"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestExportIncludesAllRecords(t *testing.T) {
	repo := newFakeRepo()
	for i := 1; i <= maxPageLimit+50; i++ {
		repo.records[int64(i)] = models.Record{ID: int64(i), Name: fmt.Sprintf("Sample %d", i), Value: float64(i)}
	}
	repo.nextID = int64(len(repo.records) + 1)
	srv := newTestServer(repo, false)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/records/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, rows, maxPageLimit+50+1)
	assert.Equal(t, []string{"ID", "Name", "Value", "Score", "Created At"}, rows[0])
	assert.Equal(t, "Sample 1", rows[1][1])
	assert.Equal(t, fmt.Sprintf("Sample %d", maxPageLimit+50), rows[maxPageLimit+50][1])
}

func TestRecovererRedactsByEnvironment(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("stub provider misconfigured")
	})

	tests := []struct {
		name        string
		debug       bool
		wantDetails bool
	}{
		{"debug exposes panic details", true, true},
		{"production redacts panic details", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := recoverer(zerolog.Nop(), tt.debug)(panicking)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Internal server error", body.Error)

			if tt.wantDetails {
				assert.Equal(t, "panic", body.Details["type"])
				assert.Equal(t, "stub provider misconfigured", body.Details["message"])
			} else {
				assert.Nil(t, body.Details)
			}
		})
	}
}

func TestRecovererPassesThroughPanicFreeRequests(t *testing.T) {
	srv := newTestServer(newFakeRepo(), true)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityHeaderIsAttached(t *testing.T) {
	srv := newTestServer(newFakeRepo(), false)

	body := bytes.NewBufferString(`{"analysis_kind":"trend","value":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", body)
	req.Header.Set("X-User-ID", "7f8c0f6e-97fa-4f6a-8426-5d2f9a6f3b0e")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		RequestedBy *string `json:"requested_by"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.RequestedBy)
	assert.Equal(t, "7f8c0f6e-97fa-4f6a-8426-5d2f9a6f3b0e", *resp.RequestedBy)
}
