package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"assettrack-api/internal/identity"
	"assettrack-api/internal/lifecycle"
	"assettrack-api/internal/scan"
	"assettrack-api/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": message, "code": code})
}

// writeDomainError maps domain errors onto HTTP statuses with a short
// human-readable reason. Nothing is silently dropped.
func writeDomainError(w http.ResponseWriter, err error) {
	var authErr *identity.AuthError
	var logErr *lifecycle.LogWriteError

	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", "record already exists")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage backend unavailable, try again")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, scan.ErrEmptyCode):
		writeError(w, http.StatusBadRequest, "EMPTY_CODE", "code must not be empty")
	case errors.As(err, &logErr):
		// The item mutation stands; only the activity log entry is
		// missing. Report the partial failure.
		writeError(w, http.StatusInternalServerError, "LOG_WRITE_FAILED",
			"action applied but the activity log entry could not be recorded")
	case errors.As(err, &authErr):
		writeError(w, authStatus(authErr), authErr.Code, authErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// authStatus picks the HTTP status for a provider error code.
func authStatus(err *identity.AuthError) int {
	switch err.Code {
	case identity.ErrUserNotFound.Code, identity.ErrWrongPassword.Code, identity.ErrInvalidCredential.Code:
		return http.StatusUnauthorized
	case identity.ErrEmailAlreadyInUse.Code:
		return http.StatusConflict
	default: // invalid-email, weak-password
		return http.StatusBadRequest
	}
}
