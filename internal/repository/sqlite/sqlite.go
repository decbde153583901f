// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage, which
// suits a single-process deployment of this backend. Use ":memory:" for an
// in-memory database in tests.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite C code — works everywhere Go works.
//
// SCHEMA SHAPE:
// The original data model is a user document embedding two card arrays. In
// SQL that becomes a users table plus a list_entries child table whose
// composite primary key (user_id, list, card_id) IS the per-list uniqueness
// invariant — the database enforces "no duplicate card in one list" for us,
// and the same card may still appear in both lists of one user.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces.
//
// LIFECYCLE:
// New creates and migrates it at startup; the server owns it and closes it
// on shutdown. Handlers receive it through injected interfaces — there is no
// package-level connection handle anywhere, so there is nothing to lazily
// initialise or forget to tear down.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// sql.Open only prepares the pool; Ping forces a real connection so a bad
// path or permissions problem surfaces at startup instead of on the first
// request.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// without it SQLite locks the whole file per write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite; list_entries references
	// users, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Call it on shutdown (the server defers
// it) so the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable. The status endpoint uses it.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent
// — safe to run on every start against an existing database.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// The composite primary key doubles as the uniqueness invariant: one
	// cardId at most once per (user, list). Rows are read back in rowid
	// order, which is insertion order — the display order of the lists.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS list_entries (
			user_id    TEXT NOT NULL REFERENCES users(id),
			list       TEXT NOT NULL CHECK (list IN ('wants', 'sells')),
			card_id    TEXT NOT NULL,
			card_name  TEXT NOT NULL DEFAULT '',
			set_code   TEXT NOT NULL DEFAULT '',
			edition    TEXT NOT NULL DEFAULT '',
			language   TEXT NOT NULL DEFAULT 'English',
			foil       INTEGER NOT NULL DEFAULT 0,
			quantity   INTEGER NOT NULL DEFAULT 1,
			price      REAL NOT NULL DEFAULT 0,
			date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, list, card_id)
		);
		CREATE INDEX IF NOT EXISTS idx_list_entries_user ON list_entries(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating list_entries table: %w", err)
	}

	return nil
}
