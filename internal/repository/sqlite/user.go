package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/card-trader/internal/apperror"
	"github.com/sakif/card-trader/internal/model"
	"github.com/sakif/card-trader/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
// If a method goes missing the build breaks here, not at a call site.
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new account with empty lists.
//
// IDs are xid strings: 20 chars, URL-safe, sortable by creation time.
// The caller (registration) has already probed the uniqueness constraints,
// but the UNIQUE columns still backstop a race between two simultaneous
// registrations — the loser gets a constraint error here.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.RegisteredAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, registered_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves an account and both of its lists.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves an account by its unique username, lists included.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

// FindConflicts checks the username and email uniqueness constraints
// independently, in one query, so registration can report both violations
// together.
func (db *DB) FindConflicts(ctx context.Context, username, email string) (bool, bool, error) {
	var usernameTaken, emailTaken bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			EXISTS(SELECT 1 FROM users WHERE username = ?),
			EXISTS(SELECT 1 FROM users WHERE email = ?)`,
		username, email,
	).Scan(&usernameTaken, &emailTaken)
	if err != nil {
		return false, false, fmt.Errorf("sqlite: checking uniqueness for %q: %w", username, err)
	}
	return usernameTaken, emailTaken, nil
}

// getUser loads one user row plus all of its list entries. where must be a
// fixed clause from this file — never interpolate caller input into it.
func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, registered_at FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.RegisteredAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	if err := db.loadLists(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// loadLists fills Wants and Sells in insertion (rowid) order.
//
// The slices start non-nil so an empty list serialises as [] rather than
// null — the client iterates them without a null check.
func (db *DB) loadLists(ctx context.Context, u *model.User) error {
	u.Wants = []model.CardEntry{}
	u.Sells = []model.CardEntry{}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT list, card_id, card_name, set_code, edition, language, foil, quantity, price, date_added
		 FROM list_entries WHERE user_id = ? ORDER BY rowid`,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading lists for user %s: %w", u.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var list string
		var e model.CardEntry
		if err := rows.Scan(
			&list,
			&e.CardID,
			&e.CardName,
			&e.SetCode,
			&e.Edition,
			&e.Language,
			&e.Foil,
			&e.Quantity,
			&e.Price,
			&e.DateAdded,
		); err != nil {
			return fmt.Errorf("sqlite: scanning list entry: %w", err)
		}

		switch model.ListKind(list) {
		case model.ListWants:
			u.Wants = append(u.Wants, e)
		case model.ListSells:
			u.Sells = append(u.Sells, e)
		}
	}

	return rows.Err()
}
