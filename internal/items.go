package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"assettrack-api/internal/auth"
	"assettrack-api/internal/models"
	"assettrack-api/internal/scan"
	"assettrack-api/internal/store"

	"github.com/go-chi/chi/v5"
)

// LIST with text search & pagination. The store returns items ordered by
// last_updated descending; the q filter matches item_id or name.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	items, err := s.Store.Items.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if params.q != "" {
		q := strings.ToLower(params.q)
		filtered := items[:0]
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.ItemID), q) ||
				strings.Contains(strings.ToLower(it.Name), q) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	total := len(items)
	sendListResponse(w, window(items, params), total, params)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := s.Store.Items.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// getItemQR serves the printable label for an item. The PNG payload is the
// item_id itself, so a scan of the label resolves back to this record.
func (s *Server) getItemQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := s.Store.Items.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	png, err := scan.EncodeQR(item.ItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="QR-%s.png"`, item.ItemID))
	if _, err := w.Write(png); err != nil {
		s.Log.Error().Err(err).Str("item_id", id).Msg("writing qr response")
	}
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON")
		return
	}
	if err := s.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "item_id and name are required")
		return
	}
	if in.Category == "" {
		in.Category = "General"
	}

	// Put is an upsert; reject explicit creation of an existing tag.
	if _, err := s.Store.Items.Get(r.Context(), in.ItemID); err == nil {
		writeError(w, http.StatusConflict, "CONFLICT", "item_id already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeDomainError(w, err)
		return
	}

	item, err := s.Store.Items.Put(r.Context(), models.Item{
		ItemID:        in.ItemID,
		Name:          in.Name,
		Category:      in.Category,
		Status:        models.StatusAvailable,
		LastCondition: models.ConditionGood,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Registration gets its own log entry. As with lifecycle actions, a
	// failed log write does not undo the item write.
	claims := auth.ClaimsFromContext(r.Context())
	if _, err := s.Store.Logs.Insert(r.Context(), models.LogEntry{
		ItemID:            item.ItemID,
		ItemName:          item.Name,
		UserID:            claims.UID,
		UserName:          claims.Name,
		Action:            models.ActionRegister,
		ConditionReported: string(models.ConditionGood),
		Timestamp:         time.Now(),
	}); err != nil {
		s.Log.Error().Err(err).Str("item_id", item.ItemID).Msg("register log write failed")
	}

	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON")
		return
	}
	if in.Name == nil && in.Category == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "no fields to update")
		return
	}

	item, err := s.Store.Items.Update(r.Context(), id, models.ItemPatch{
		Name:     in.Name,
		Category: in.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Store.Items.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
