package api

import (
	"encoding/json"
	"net/http"

	"goinsight/domain/analysis"
	"goinsight/internal/errors"
)

// errorBody is the wire shape of every failure response
type errorBody struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// statusByCode is the published error-to-status contract. Clients depend
// on this mapping being stable across transports.
var statusByCode = map[string]int{
	errors.CodeValidation:  http.StatusBadRequest,
	errors.CodeNotFound:    http.StatusNotFound,
	errors.CodeProvider:    http.StatusBadGateway,
	errors.CodeCalculator:  http.StatusInternalServerError,
	errors.CodeApplication: http.StatusInternalServerError,
	errors.CodeDatabase:    http.StatusInternalServerError,
}

// StatusForCode resolves a taxonomy code to its transport status.
// Unknown codes answer 500.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a taxonomy error onto the published status contract
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusForCode(errors.CodeOf(err)), errorBody{
		Error:   errors.MessageOf(err),
		Details: errors.DetailsOf(err),
	})
}

// writeFailure serializes a failure Result onto the status contract
func writeFailure[T any](w http.ResponseWriter, result analysis.Result[T]) {
	writeJSON(w, StatusForCode(result.Code()), errorBody{
		Error:   result.Message(),
		Details: result.Details(),
	})
}
