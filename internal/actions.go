package internal

import (
	"net/http"

	"assettrack-api/internal/auth"
	"assettrack-api/internal/lifecycle"
	"assettrack-api/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) claimItem(w http.ResponseWriter, r *http.Request) {
	s.applyAction(w, r, lifecycle.ActionClaim)
}

func (s *Server) returnItem(w http.ResponseWriter, r *http.Request) {
	s.applyAction(w, r, lifecycle.ActionReturn)
}

func (s *Server) reportBroken(w http.ResponseWriter, r *http.Request) {
	s.applyAction(w, r, lifecycle.ActionReportBroken)
}

// applyAction runs one lifecycle action for the authenticated caller and
// returns the updated item together with the appended log entry.
func (s *Server) applyAction(w http.ResponseWriter, r *http.Request, action lifecycle.Action) {
	id := chi.URLParam(r, "id")
	claims := auth.ClaimsFromContext(r.Context())
	actor := lifecycle.Actor{UID: claims.UID, Name: claims.Name, Role: claims.Role}

	item, entry, err := s.Lifecycle.Apply(r.Context(), id, action, actor)
	if err != nil {
		s.Metrics.RecordAction(string(action), "error")
		s.Log.Warn().Err(err).Str("item_id", id).Str("uid", actor.UID).Str("action", string(action)).Msg("lifecycle action failed")
		writeDomainError(w, err)
		return
	}

	s.Metrics.RecordAction(string(action), "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"item": item,
		"log":  entry,
	})
}

// resolveScan looks up a decoded or manually entered code as an item id.
func (s *Server) resolveScan(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	item, err := s.Resolver.Resolve(r.Context(), code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// itemStatusCounts tallies items per lifecycle state for the dashboard.
func itemStatusCounts(items []models.Item) map[string]int {
	counts := map[string]int{
		string(models.StatusAvailable): 0,
		string(models.StatusInUse):     0,
		string(models.StatusBroken):    0,
	}
	for _, it := range items {
		counts[string(it.Status)]++
	}
	return counts
}
