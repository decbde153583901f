// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/card-trader/internal/model"
)

// CardUpdate carries the replaceable fields of a list entry.
//
// WHY POINTER FIELDS?
// JSON can't distinguish `"quantity": 0` from an absent quantity once decoded
// into plain ints. Pointers restore that distinction: nil means "leave this
// field alone", non-nil means "overwrite with this value" — including zero
// values like price 0 or foil false. CardID and DateAdded are deliberately
// absent: they are immutable after insertion.
type CardUpdate struct {
	CardName *string
	Quantity *int
	Edition  *string
	Language *string
	Foil     *bool
	Price    *float64
	SetCode  *string
}

// Empty reports whether the update would change nothing.
func (u CardUpdate) Empty() bool {
	return u.CardName == nil && u.Quantity == nil && u.Edition == nil &&
		u.Language == nil && u.Foil == nil && u.Price == nil && u.SetCode == nil
}

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a new account. The implementation assigns ID and
	// RegisteredAt on the passed struct.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the account with both lists loaded, or an error
	// wrapping apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByUsername is like GetByID but keyed on the unique username. The
	// returned struct includes PasswordHash — callers serving public
	// profiles rely on the model's json:"-" tag, login relies on the hash
	// being present.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// FindConflicts probes both uniqueness constraints independently so
	// registration can report every violation at once.
	FindConflicts(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
}

// ListRepository mutates the per-account want/sell lists.
//
// All three operations take the owning user's id as authority — there is no
// way to address another account's list through this interface.
type ListRepository interface {
	// AddCard appends entry to the given list as a single atomic
	// insert-if-absent. If the list already holds entry.CardID the call
	// returns an error wrapping apperror.ErrConflict and the list is
	// unchanged. On success entry.DateAdded is set by the implementation.
	AddCard(ctx context.Context, userID string, list model.ListKind, entry *model.CardEntry) error

	// UpdateCard overwrites the provided fields of the entry with the given
	// cardID. When no entry matches, UpdateCard is a silent no-op and
	// returns nil.
	UpdateCard(ctx context.Context, userID string, list model.ListKind, cardID string, upd CardUpdate) error

	// RemoveCard deletes every entry with cardID from the list. Removing an
	// absent cardID succeeds — the operation is idempotent.
	RemoveCard(ctx context.Context, userID string, list model.ListKind, cardID string) error
}
