package handler

// RESPONSE HELPERS:
// These functions standardise how handlers send JSON and map domain errors
// to HTTP. Every error response has the same shape:
//
//	{"error": "conflict", "message": "...", "errores": ["...", "..."]}
//
// `errores` (the wire name the client already parses) only appears when a
// conflict aggregates several violations — registration reporting both a
// taken username and a taken email at once.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/card-trader/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string   `json:"error"`             // machine-readable type, e.g. "not_found"
	Message string   `json:"message"`           // human-readable description
	Details []string `json:"errores,omitempty"` // aggregated sub-messages
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status MUST be set before the first body write — Encode writes
// the body, which flushes the headers, and any later header change is
// silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends it.
//
// STATUS MAPPING:
// This switch is the single place domain errors become status codes — the
// service layer never sees HTTP. Two mappings are contract, not convention:
//
//   - conflicts (duplicate username/email/cardId) are 400, not the more
//     conventional 409 — the deployed client branches on 400;
//   - invalid credentials are 400 with one uniform message for both unknown
//     user and wrong password, so login failures can't enumerate accounts.
//
// Unknown errors become a generic 500; their internals (SQL, file paths)
// never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrInvalidToken):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError
			errorType = "upstream_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// ErrorWriter exposes writeError to middleware in other packages (the auth
// package's RequireAuth) without creating an import cycle.
type ErrorWriter struct{}

func (ErrorWriter) WriteError(w http.ResponseWriter, err error) {
	writeError(w, err)
}
