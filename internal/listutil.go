package internal

import (
	"net/http"
	"strconv"
	"strings"
)

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit  int
	offset int
	q      string
}

// parseListParams parses limit, offset and q from the request.
// Defaults: limit=50 (max 200), offset=0.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:  limit,
		offset: offset,
		q:      strings.TrimSpace(values.Get("q")),
	}
}

// window applies offset/limit to an already ordered slice.
func window[T any](items []T, p listParams) []T {
	if p.offset >= len(items) {
		return []T{}
	}
	items = items[p.offset:]
	if len(items) > p.limit {
		items = items[:p.limit]
	}
	return items
}

// sendListResponse writes a paginated list envelope.
func sendListResponse(w http.ResponseWriter, items any, total int, p listParams) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data":   items,
		"total":  total,
		"limit":  p.limit,
		"offset": p.offset,
	})
}
