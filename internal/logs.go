package internal

import (
	"net/http"
)

// listLogs returns the activity log, newest first. The store orders by
// timestamp descending; log ids carry no ordering guarantee.
func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	entries, err := s.Store.Logs.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	total := len(entries)
	sendListResponse(w, window(entries, params), total, params)
}

// getStats returns dashboard counts: items per status plus roster size.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.Items.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	users, err := s.Store.Users.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_items": len(items),
		"by_status":   itemStatusCounts(items),
		"total_users": len(users),
	})
}
