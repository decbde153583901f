package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/card-trader/internal/apperror"
	"github.com/sakif/card-trader/internal/model"
	"github.com/sakif/card-trader/internal/repository"
)

// AddCardParams is the input of an add-to-list operation.
//
// CardID and CardName are the only concrete fields; everything optional is a
// pointer so "omitted" (nil → server default) is distinguishable from "sent
// as zero" (kept as sent). The defaults match what the client has always
// relied on: quantity 1, language English, foil false, price 0, empty
// setCode/edition.
type AddCardParams struct {
	CardID   string
	CardName string
	SetCode  *string
	Edition  *string
	Language *string
	Foil     *bool
	Quantity *int
	Price    *float64
}

// ListService handles the want/sell list operations. Wants and sells are
// fully symmetric — the same code runs for both, parameterised by
// model.ListKind.
type ListService struct {
	lists  repository.ListRepository
	logger *slog.Logger
}

// NewListService creates a ListService.
func NewListService(lists repository.ListRepository, logger *slog.Logger) *ListService {
	return &ListService{
		lists:  lists,
		logger: logger,
	}
}

// AddCard validates the input, applies defaults for omitted fields, and
// appends the entry to the caller's list.
//
// Duplicate cardIds surface as apperror.ErrConflict from the repository's
// atomic insert — the service adds no pre-check of its own, so there is no
// window for two concurrent adds to both succeed.
func (s *ListService) AddCard(ctx context.Context, userID string, list model.ListKind, p AddCardParams) (*model.CardEntry, error) {
	p.CardID = strings.TrimSpace(p.CardID)
	if p.CardID == "" {
		return nil, apperror.ValidationFailed("cardId", "cardId is required")
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return nil, apperror.ValidationFailed("quantity", "quantity must be a positive integer")
	}
	if p.Price != nil && *p.Price < 0 {
		return nil, apperror.ValidationFailed("price", "price must not be negative")
	}

	entry := &model.CardEntry{
		CardID:   p.CardID,
		CardName: strings.TrimSpace(p.CardName),
		Language: model.DefaultLanguage,
		Quantity: model.DefaultQuantity,
	}
	if p.SetCode != nil {
		entry.SetCode = *p.SetCode
	}
	if p.Edition != nil {
		entry.Edition = *p.Edition
	}
	if p.Language != nil {
		entry.Language = *p.Language
	}
	if p.Foil != nil {
		entry.Foil = *p.Foil
	}
	if p.Quantity != nil {
		entry.Quantity = *p.Quantity
	}
	if p.Price != nil {
		entry.Price = *p.Price
	}

	if err := s.lists.AddCard(ctx, userID, list, entry); err != nil {
		// Conflicts are a normal client outcome — don't log them as errors
		return nil, err
	}

	s.logger.Info("card added",
		slog.String("userID", userID),
		slog.String("list", string(list)),
		slog.String("cardId", entry.CardID),
	)

	return entry, nil
}

// UpdateCard overwrites the provided fields of the matching entry.
//
// An absent cardId is a silent no-op by contract — the client treats every
// 200 from this endpoint the same way, and changing that would break it.
func (s *ListService) UpdateCard(ctx context.Context, userID string, list model.ListKind, cardID string, upd repository.CardUpdate) error {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return apperror.ValidationFailed("cardId", "cardId is required")
	}
	if upd.Quantity != nil && *upd.Quantity <= 0 {
		return apperror.ValidationFailed("quantity", "quantity must be a positive integer")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return apperror.ValidationFailed("price", "price must not be negative")
	}

	if err := s.lists.UpdateCard(ctx, userID, list, cardID, upd); err != nil {
		s.logger.Error("failed to update card",
			slog.String("userID", userID),
			slog.String("list", string(list)),
			slog.String("cardId", cardID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating card: %w", err)
	}

	s.logger.Info("card updated",
		slog.String("userID", userID),
		slog.String("list", string(list)),
		slog.String("cardId", cardID),
	)

	return nil
}

// RemoveCard deletes the entry with cardID from the caller's list.
// Removing an absent card succeeds — the operation is idempotent.
func (s *ListService) RemoveCard(ctx context.Context, userID string, list model.ListKind, cardID string) error {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return apperror.ValidationFailed("cardId", "cardId is required")
	}

	if err := s.lists.RemoveCard(ctx, userID, list, cardID); err != nil {
		s.logger.Error("failed to remove card",
			slog.String("userID", userID),
			slog.String("list", string(list)),
			slog.String("cardId", cardID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("removing card: %w", err)
	}

	s.logger.Info("card removed",
		slog.String("userID", userID),
		slog.String("list", string(list)),
		slog.String("cardId", cardID),
	)

	return nil
}
