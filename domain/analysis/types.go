package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Request describes a single analysis invocation. It is constructed by
// the caller and never mutated by the pipeline.
//
// When DataID is set the provider resolves Value and Score from the
// stored record; otherwise the inline fields are analyzed directly.
type Request struct {
	Kind           Kind     `json:"analysis_kind"`
	Value          float64  `json:"value"`
	Score          *float64 `json:"score,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	DataID         *int64   `json:"data_id,omitempty"`
	IncludeDetails bool     `json:"include_details"`
}

// NeedsProvider reports whether the request requires external data resolution
func (r Request) NeedsProvider() bool {
	return r.DataID != nil
}

// Identity is the optional caller identity threaded through Execute for
// attribution only. It is never required for correctness.
type Identity struct {
	UserID uuid.UUID
	Name   string
}

// ProviderInput identifies the record a provider should resolve
type ProviderInput struct {
	DataID int64
}

// ProviderOutput is the fully resolved record shape. Providers return it
// complete or not at all.
type ProviderOutput struct {
	ID    int64
	Name  string
	Value float64
	Score float64
}

// CalculatorInput mirrors the request fields a calculation needs
type CalculatorInput struct {
	Kind      Kind
	Value     float64
	Score     *float64
	Threshold *float64
}

// CalculatorOutput holds computed metrics and derived insights.
// A successful calculation always carries at least one metric.
type CalculatorOutput struct {
	Metrics  map[string]float64
	Insights []string
}

// Response is the payload shape exposed to every transport
type Response struct {
	DataID      *int64             `json:"data_id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Kind        Kind               `json:"analysis_kind"`
	Metrics     map[string]float64 `json:"metrics"`
	Insights    []string           `json:"insights"`
	Details     map[string]any     `json:"details,omitempty"`
	RequestedBy *uuid.UUID         `json:"requested_by,omitempty"`
	AnalyzedAt  time.Time          `json:"analyzed_at"`
}
