// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered trader account.
//
// The JSON field names (`usuario`, `fechaRegistro`) are the wire contract the
// mobile client already speaks — they must not be "fixed" to English without
// coordinating a client release.
//
// WHY PasswordHash HAS json:"-"?
// The hash must never appear in any API response. Tagging the field with "-"
// means encoding/json skips it entirely, so there is no way for a handler to
// accidentally leak it by encoding the whole struct. The db tag still maps it
// for repository scans.
//
// WHY Wants/Sells ARE SLICES, NOT MAPS?
// The lists are ordered — insertion order is display order. A map would lose
// that. Uniqueness of cardId within a list is enforced by the storage layer,
// not by the container type.
type User struct {
	ID           string      `json:"id"            db:"id"`
	Username     string      `json:"usuario"       db:"username"`
	Email        string      `json:"email"         db:"email"`
	PasswordHash string      `json:"-"             db:"password_hash"`
	RegisteredAt time.Time   `json:"fechaRegistro" db:"registered_at"`
	Wants        []CardEntry `json:"wants"`
	Sells        []CardEntry `json:"sells"`
}
