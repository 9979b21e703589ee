package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination holds parsed skip/limit query parameters
type Pagination struct {
	Skip  int
	Limit int
}

// parsePagination reads skip/limit from the query string, applying
// defaults and clamping to sane bounds. Malformed values fall back to
// the defaults rather than failing the request.
func parsePagination(r *http.Request) Pagination {
	p := Pagination{Skip: 0, Limit: defaultPageLimit}

	if raw := r.URL.Query().Get("skip"); raw != "" {
		if skip, err := strconv.Atoi(raw); err == nil && skip >= 0 {
			p.Skip = skip
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}

	return p
}
