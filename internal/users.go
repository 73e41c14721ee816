package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"assettrack-api/internal/auth"
	"assettrack-api/internal/models"
	"assettrack-api/internal/store"

	"github.com/go-chi/chi/v5"
)

// loginUser handles user authentication
func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "email and password are required")
		return
	}

	sess, err := s.Identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// An account with no profile document is still authenticated; it gets
	// a plain user token and a null profile the client must handle.
	name := ""
	role := models.RoleUser
	if sess.Profile != nil {
		name = sess.Profile.Name
		role = sess.Profile.Role
	}

	token, err := s.JWTManager.GenerateToken(sess.UID, name, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "TOKEN", "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, Profile: sess.Profile})
}

// registerUser handles self-service registration. The role field defaults to
// "user"; passing "admin" is honored, matching the legacy client which
// performed role assignment on the client side.
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "email, password and name are required; password must be at least 6 characters")
		return
	}

	sess, err := s.Identity.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := s.JWTManager.GenerateToken(sess.UID, sess.Profile.Name, sess.Profile.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "TOKEN", "failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, models.LoginResponse{Token: token, Profile: sess.Profile})
}

func (s *Server) logoutUser(w http.ResponseWriter, r *http.Request) {
	s.Identity.SignOut(r.Context(), auth.UIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// getProfile returns the caller's own profile document, or a null profile
// for an authenticated but unprovisioned account.
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	uid := auth.UIDFromContext(r.Context())

	profile, err := s.Store.Users.Get(r.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"uid": uid, "profile": nil})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Store.Users.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	profile, err := s.Store.Users.Get(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var in models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON")
		return
	}
	if in.Role != nil && !models.IsValidRole(*in.Role) {
		writeError(w, http.StatusBadRequest, "VALIDATION", "role must be admin or user")
		return
	}
	if in.Name == nil && in.Role == nil && in.Department == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "no fields to update")
		return
	}

	profile, err := s.Store.Users.Update(r.Context(), uid, models.UserPatch{
		Name:       in.Name,
		Role:       in.Role,
		Department: in.Department,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// deleteUser removes the profile document only. Items the user still holds
// keep their dangling holder reference and the credential account is left in
// place; both degradations are tolerated by design of the data model.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	if err := s.Store.Users.Delete(r.Context(), uid); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
