package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/card-trader/internal/service"
)

// AuthHandler owns the registration and login endpoints.
//
// Handlers only parse HTTP and translate results — every rule (uniqueness,
// hashing, the uniform login failure) lives in the service, where it is
// testable without a request in sight.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// registerRequest mirrors the wire contract: the client sends `usuario`,
// not `username`.
type registerRequest struct {
	Username string `json:"usuario"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/registro
// BODY: {"usuario": "...", "email": "...", "password": "..."}
//
// 201 {"message": ..., "id": ...} on success. Uniqueness violations come
// back as a 400 conflict whose `errores` array names EVERY violated
// constraint, so the registration form can mark both fields in one round
// trip.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid registration JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "user registered successfully",
		"id":      user.ID,
	})
}

// HandleLogin authenticates and issues a bearer token.
//
// HTTP: POST /api/login
// BODY: {"usuario": "...", "password": "..."}
//
// 200 {"message": ..., "token": ..., "usuario": ...}. Unknown usernames and
// wrong passwords share one 400 response — see service.AuthService.Login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "login successful",
		"token":   res.Token,
		"usuario": res.User.Username,
	})
}
