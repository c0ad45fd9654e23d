package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/blog-admin/internal/apperror"
)

// ErrorResponse is the JSON error shape for the upload endpoint. The
// `error` field is always present; `location` never is on a failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must go out before
// the body; once Encode writes, they are committed — which is also what
// guarantees at most one response per request.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusForError maps domain errors to HTTP status codes. Shared by the
// JSON and page paths so both agree on what a NotFound or a remote outage
// looks like.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrAmbiguous):
		return http.StatusInternalServerError
	case errors.Is(err, apperror.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a domain error to an HTTP status and JSON body.
// Unknown errors become a generic 500 — internal details never reach the
// client.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)

	errorType := "internal_error"
	switch {
	case errors.Is(err, apperror.ErrValidation):
		errorType = "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		errorType = "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		errorType = "not_found"
	case errors.Is(err, apperror.ErrAmbiguous):
		errorType = "ambiguous_result"
	case errors.Is(err, apperror.ErrRemote):
		errorType = "remote_error"
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, status, ErrorResponse{Error: errorType, Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
