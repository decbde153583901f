package model

import "time"

// Default values applied server-side when a client omits optional CardEntry
// fields on an add operation. Centralised here so the service layer and the
// tests agree on a single source of truth.
const (
	DefaultLanguage = "English"
	DefaultQuantity = 1
)

// CardEntry is one line item in a want or sell list: a specific printing of a
// card (set + language + foil variant) plus how many and at what price.
//
// CardID is the external catalog identifier of the printing. Together with
// the owning user and list it is unique — the same card may appear in both
// the wants and the sells of one user, but never twice in the same list.
//
// DateAdded is set by the server at insertion and is immutable afterwards;
// update operations never touch it.
type CardEntry struct {
	CardID    string    `json:"cardId"    db:"card_id"`
	CardName  string    `json:"cardName"  db:"card_name"`
	SetCode   string    `json:"setCode"   db:"set_code"`
	Edition   string    `json:"edition"   db:"edition"`
	Language  string    `json:"language"  db:"language"`
	Foil      bool      `json:"foil"      db:"foil"`
	Quantity  int       `json:"quantity"  db:"quantity"`
	Price     float64   `json:"price"     db:"price"`
	DateAdded time.Time `json:"dateAdded" db:"date_added"`
}

// ListKind selects which of the two per-user lists an operation targets.
//
// It doubles as the value stored in the list_entries.list column, so the two
// constants are part of the storage schema — don't rename them.
type ListKind string

const (
	ListWants ListKind = "wants"
	ListSells ListKind = "sells"
)

// Valid reports whether k is one of the two known lists. Handlers derive the
// kind from the URL, so anything else is a routing bug, but the repository
// still refuses unknown kinds rather than writing garbage rows.
func (k ListKind) Valid() bool {
	return k == ListWants || k == ListSells
}
