package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/card-trader/internal/apperror"
	"github.com/sakif/card-trader/internal/auth"
	"github.com/sakif/card-trader/internal/model"
	"github.com/sakif/card-trader/internal/repository"
	"github.com/sakif/card-trader/internal/service"
)

// ListHandler owns the six list endpoints. Wants and sells are the same
// three operations on different lists, so each handler method takes the
// model.ListKind at route-registration time and returns the actual
// http.HandlerFunc — the router mounts every method twice, once per list.
type ListHandler struct {
	svc    *service.ListService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(svc *service.ListService, logger *slog.Logger) *ListHandler {
	return &ListHandler{svc: svc, logger: logger}
}

// addCardRequest carries the client-settable CardEntry fields. Optional
// fields are pointers so the service can tell "omitted" (apply default)
// from "explicitly zero" (keep as sent) — dateAdded is not here at all, the
// server owns it.
type addCardRequest struct {
	CardID   string   `json:"cardId"`
	CardName string   `json:"cardName"`
	SetCode  *string  `json:"setCode"`
	Edition  *string  `json:"edition"`
	Language *string  `json:"language"`
	Foil     *bool    `json:"foil"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// updateCardRequest carries the replaceable fields of an existing entry.
// cardId comes from the URL, never the body, and dateAdded is immutable.
type updateCardRequest struct {
	CardName *string  `json:"cardName"`
	SetCode  *string  `json:"setCode"`
	Edition  *string  `json:"edition"`
	Language *string  `json:"language"`
	Foil     *bool    `json:"foil"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// HandleAdd appends a card to the caller's list.
//
// HTTP: POST /api/user/wants  |  POST /api/user/sells (bearer required)
//
// 400 conflict when the cardId is already in that list; the list is
// unchanged in that case.
func (h *ListHandler) HandleAdd(kind model.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, errMissingIdentity())
			return
		}

		var req addCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("invalid add-card JSON", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "invalid JSON body",
			})
			return
		}

		entry, err := h.svc.AddCard(r.Context(), id.UserID, kind, service.AddCardParams{
			CardID:   req.CardID,
			CardName: req.CardName,
			SetCode:  req.SetCode,
			Edition:  req.Edition,
			Language: req.Language,
			Foil:     req.Foil,
			Quantity: req.Quantity,
			Price:    req.Price,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "card added to " + string(kind),
			"card":    entry,
		})
	}
}

// HandleUpdate overwrites fields of one entry, addressed by cardId.
//
// HTTP: PUT /api/user/wants/{cardId}  |  PUT /api/user/sells/{cardId}
//
// A cardId that isn't in the list is a 200 no-op — the client sends updates
// fire-and-forget and treats every 200 identically.
func (h *ListHandler) HandleUpdate(kind model.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, errMissingIdentity())
			return
		}

		cardID := chi.URLParam(r, "cardId")

		var req updateCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("invalid update-card JSON", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "invalid JSON body",
			})
			return
		}

		err := h.svc.UpdateCard(r.Context(), id.UserID, kind, cardID, repository.CardUpdate{
			CardName: req.CardName,
			SetCode:  req.SetCode,
			Edition:  req.Edition,
			Language: req.Language,
			Foil:     req.Foil,
			Quantity: req.Quantity,
			Price:    req.Price,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "card updated in " + string(kind),
		})
	}
}

// HandleRemove deletes an entry by cardId. Idempotent — removing an absent
// card is still a 200.
//
// HTTP: DELETE /api/user/wants/{cardId}  |  DELETE /api/user/sells/{cardId}
func (h *ListHandler) HandleRemove(kind model.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, errMissingIdentity())
			return
		}

		cardID := chi.URLParam(r, "cardId")

		if err := h.svc.RemoveCard(r.Context(), id.UserID, kind, cardID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "card removed from " + string(kind),
		})
	}
}

// errMissingIdentity is the fail-closed error for a protected handler that
// somehow ran without RequireAuth having stored an identity.
func errMissingIdentity() error {
	return apperror.Unauthenticated()
}
