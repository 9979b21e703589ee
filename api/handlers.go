package api

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"goinsight/app"
	"goinsight/domain/analysis"
	"goinsight/internal/errors"
	"goinsight/models"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "goinsight",
		"version": Version,
		"status":  "running",
		"api_v1":  "/api/v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"environment": s.cfg.Environment,
		"version":     Version,
	})
}

// analyzeRequest is the wire shape of an analysis invocation
type analyzeRequest struct {
	AnalysisKind   string   `json:"analysis_kind"`
	Value          float64  `json:"value"`
	Score          *float64 `json:"score,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	DataID         *int64   `json:"data_id,omitempty"`
	IncludeDetails bool     `json:"include_details"`
}

// handleAnalyze runs the orchestration pipeline and unwraps its Result
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	result := s.service.Execute(r.Context(), analysis.Request{
		Kind:           analysis.ParseKind(req.AnalysisKind),
		Value:          req.Value,
		Score:          req.Score,
		Threshold:      req.Threshold,
		DataID:         req.DataID,
		IncludeDetails: req.IncludeDetails,
	}, identityFrom(r.Context()))

	if !result.OK() {
		writeFailure(w, result)
		return
	}
	writeJSON(w, http.StatusOK, result.Data())
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result := s.service.Lookup(r.Context(), id)
	if !result.OK() {
		writeFailure(w, result)
		return
	}
	out := result.Data()
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    out.ID,
		"name":  out.Name,
		"value": out.Value,
		"score": out.Score,
	})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	page := parsePagination(r)

	records, total, err := s.repo.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		writeError(w, errors.DatabaseError("failed to list records", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     records,
		"total":     total,
		"page":      (page.Skip / page.Limit) + 1,
		"page_size": page.Limit,
	})
}

// recordPayload is the wire shape for create and update
type recordPayload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Score float64 `json:"score"`
}

func (p recordPayload) validate() error {
	if p.Name == "" {
		return errors.Validation("name is required")
	}
	if p.Value < 0 {
		return errors.Validation("value must be non-negative")
	}
	if p.Score < 0 || p.Score > 1 {
		return errors.Validation("score must be between 0 and 1")
	}
	return nil
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}
	if err := payload.validate(); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.repo.Create(r.Context(), &models.Record{
		Name:  payload.Name,
		Value: payload.Value,
		Score: payload.Score,
	})
	if err != nil {
		writeError(w, errors.DatabaseError("failed to create record", err))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}
	if err := payload.validate(); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.repo.Update(r.Context(), &models.Record{
		ID:    id,
		Name:  payload.Name,
		Value: payload.Value,
		Score: payload.Score,
	})
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			writeError(w, errors.NotFound("record", map[string]any{"data_id": id}))
			return
		}
		writeError(w, errors.DatabaseError("failed to update record", err))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			writeError(w, errors.NotFound("record", map[string]any{"data_id": id}))
			return
		}
		writeError(w, errors.DatabaseError("failed to delete record", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.aggregates.ProvideSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	values, err := s.aggregates.ProvideValues(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := s.descriptive.Calculate(values)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleExport streams the records table as an xlsx workbook
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Records"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Value", "Score", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	// The export covers the whole table, paging past the listing cap.
	row := 2
	for skip := 0; ; skip += maxPageLimit {
		records, _, err := s.repo.List(r.Context(), skip, maxPageLimit)
		if err != nil {
			writeError(w, errors.DatabaseError("failed to load records for export", err))
			return
		}
		for _, rec := range records {
			values := []any{rec.ID, rec.Name, rec.Value, rec.Score, rec.CreatedAt.Format("2006-01-02 15:04:05")}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
		if len(records) < maxPageLimit {
			break
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="records.xlsx"`)
	if err := f.Write(w); err != nil {
		s.log.Error().Err(err).Msg("failed to write xlsx export")
	}
}

// scoreRequest is the wire shape for composite scoring
type scoreRequest struct {
	Quality     float64 `json:"quality"`
	Performance float64 `json:"performance"`
	Reliability float64 `json:"reliability"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Validation("invalid request body"))
		return
	}

	score, err := s.scorer.Calculate(app.ComponentScores{
		Quality:     req.Quality,
		Performance: req.Performance,
		Reliability: req.Reliability,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"score": score})
}

func recordID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Validation(fmt.Sprintf("invalid record id %q", raw))
	}
	return id, nil
}
