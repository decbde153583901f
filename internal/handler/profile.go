package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/card-trader/internal/auth"
	"github.com/sakif/card-trader/internal/service"
)

// ProfileHandler serves account profiles — the public by-username view and
// the authenticated "me" view. Both encode the model.User directly; the
// json:"-" tag on PasswordHash guarantees the hash can't leak either way.
type ProfileHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc *service.AuthService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// HandleGetByUsername returns any account's public profile.
//
// HTTP: GET /api/user/{username} (no auth — profiles are public)
// 404 when no such username exists.
func (h *ProfileHandler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.svc.GetProfileByUsername(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleMe returns the authenticated caller's own profile.
//
// HTTP: GET /api/user/profile/me (bearer token required)
//
// The identity comes from the verified token, never from the request — a
// caller can only ever read themselves here. 404 means the token's subject
// no longer resolves to an account.
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but a wiring mistake should fail
		// closed, not panic.
		writeError(w, errMissingIdentity())
		return
	}

	user, err := h.svc.GetProfileByID(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("profile lookup for valid token failed",
			slog.String("userID", id.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
