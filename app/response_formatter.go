package app

import (
	"time"

	"goinsight/domain/analysis"
)

// ResponseFormatter assembles the transport-facing response payload
type ResponseFormatter struct{}

// NewResponseFormatter creates the default response formatter
func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

// Format builds the response from calculator output, echoing identifying
// request fields, and attaches the optional caller identity. The detail
// block is only populated when the request asked for it.
func (f *ResponseFormatter) Format(req analysis.Request, prov *analysis.ProviderOutput, calc *analysis.CalculatorOutput, identity *analysis.Identity) *analysis.Response {
	resp := &analysis.Response{
		Kind:       req.Kind,
		Metrics:    calc.Metrics,
		Insights:   calc.Insights,
		AnalyzedAt: time.Now().UTC(),
	}

	if prov != nil {
		id := prov.ID
		resp.DataID = &id
		resp.Name = prov.Name
	} else if req.DataID != nil {
		resp.DataID = req.DataID
	}

	if identity != nil {
		userID := identity.UserID
		resp.RequestedBy = &userID
	}

	if req.IncludeDetails {
		details := map[string]any{
			"analysis_kind": string(req.Kind),
		}
		if req.Threshold != nil {
			details["threshold"] = *req.Threshold
		}
		if prov != nil {
			details["source_value"] = prov.Value
			details["source_score"] = prov.Score
		}
		resp.Details = details
	}

	return resp
}
