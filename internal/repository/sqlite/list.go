package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/card-trader/internal/apperror"
	"github.com/sakif/card-trader/internal/model"
	"github.com/sakif/card-trader/internal/repository"
)

var _ repository.ListRepository = (*DB)(nil)

// AddCard appends an entry to the user's list as one atomic statement.
//
// ATOMIC INSERT-IF-ABSENT:
// A "check then insert" sequence would let two concurrent adds of the same
// cardId both pass the check. ON CONFLICT DO NOTHING pushes the decision
// into the single INSERT: exactly one concurrent caller inserts, every other
// one sees zero rows affected and gets the conflict error. The composite
// primary key (user_id, list, card_id) is the conflict target.
func (db *DB) AddCard(ctx context.Context, userID string, list model.ListKind, entry *model.CardEntry) error {
	if !list.Valid() {
		return fmt.Errorf("sqlite: unknown list %q", list)
	}

	entry.DateAdded = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO list_entries
			(user_id, list, card_id, card_name, set_code, edition, language, foil, quantity, price, date_added)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, list, card_id) DO NOTHING`,
		userID,
		string(list),
		entry.CardID,
		entry.CardName,
		entry.SetCode,
		entry.Edition,
		entry.Language,
		entry.Foil,
		entry.Quantity,
		entry.Price,
		entry.DateAdded,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding card %s to %s: %w", entry.CardID, list, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: adding card %s to %s: %w", entry.CardID, list, err)
	}
	if affected == 0 {
		return apperror.Conflict(fmt.Sprintf("card %s is already in your %s list", entry.CardID, list))
	}

	return nil
}

// UpdateCard overwrites the provided fields of the matching entry.
//
// The SET clause is assembled from only the non-nil fields of upd — column
// names are fixed strings from this function, values always travel as
// parameters. An absent cardId matches zero rows, which is deliberately NOT
// an error: the operation is a silent no-op, matching the behaviour the
// client was built against.
func (db *DB) UpdateCard(ctx context.Context, userID string, list model.ListKind, cardID string, upd repository.CardUpdate) error {
	if !list.Valid() {
		return fmt.Errorf("sqlite: unknown list %q", list)
	}
	if upd.Empty() {
		return nil
	}

	set := make([]string, 0, 7)
	args := make([]any, 0, 10)

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if upd.CardName != nil {
		appendSet("card_name", *upd.CardName)
	}
	if upd.Quantity != nil {
		appendSet("quantity", *upd.Quantity)
	}
	if upd.Edition != nil {
		appendSet("edition", *upd.Edition)
	}
	if upd.Language != nil {
		appendSet("language", *upd.Language)
	}
	if upd.Foil != nil {
		appendSet("foil", *upd.Foil)
	}
	if upd.Price != nil {
		appendSet("price", *upd.Price)
	}
	if upd.SetCode != nil {
		appendSet("set_code", *upd.SetCode)
	}

	args = append(args, userID, string(list), cardID)

	_, err := db.conn.ExecContext(ctx,
		`UPDATE list_entries SET `+strings.Join(set, ", ")+
			` WHERE user_id = ? AND list = ? AND card_id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating card %s in %s: %w", cardID, list, err)
	}

	return nil
}

// RemoveCard deletes every entry with cardID from the list. A DELETE that
// matches nothing still succeeds, which makes removal idempotent.
func (db *DB) RemoveCard(ctx context.Context, userID string, list model.ListKind, cardID string) error {
	if !list.Valid() {
		return fmt.Errorf("sqlite: unknown list %q", list)
	}

	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM list_entries WHERE user_id = ? AND list = ? AND card_id = ?`,
		userID, string(list), cardID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing card %s from %s: %w", cardID, list, err)
	}

	return nil
}
