// Package apperror defines the application's error taxonomy.
//
// Every layer returns errors wrapping one of the sentinel values below; the
// HTTP layer (handler/response.go) is the only place that maps them to status
// codes. This keeps services and repositories protocol-agnostic — they speak
// "conflict" and "not found", never 400 or 404.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")

	ErrValidation = errors.New("validation error")

	// ErrConflict marks a uniqueness violation (duplicate username/email at
	// registration, duplicate cardId in a list). The API contract maps it to
	// 400, matching what the mobile client expects.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned for BOTH an unknown username and a
	// wrong password. Login must be indistinguishable in the two cases so a
	// caller cannot enumerate which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means no bearer token was presented at all (401).
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken means a token was presented but failed verification —
	// bad signature, expired, malformed (403).
	ErrInvalidToken = errors.New("invalid token")

	// ErrUpstream marks a failed call to a third party (the image fetch).
	// Its message is the one error detail intentionally surfaced to clients,
	// for diagnostics.
	ErrUpstream = errors.New("upstream error")
)

// AppError is the concrete error type carried through the call chain.
//
// Details exists for the registration flow, which checks the username and
// email uniqueness constraints independently and reports EVERY violation in
// one response instead of stopping at the first.
type AppError struct {
	Err     error    // sentinel, for errors.Is
	Message string   // human-readable, safe to show clients
	Field   string   // optional: the input field at fault
	Details []string // optional: sub-messages (aggregated conflicts)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Conflicts aggregates several uniqueness violations into a single error.
// Used by registration so "username taken" and "email taken" both reach the
// client in one round trip.
func Conflicts(messages []string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: strings.Join(messages, "; "),
		Details: messages,
	}
}

// InvalidCredentials returns the deliberately uniform login failure.
// Callers must not add detail that would distinguish "no such user" from
// "wrong password".
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid username or password",
	}
}

func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "authentication token required",
	}
}

func InvalidToken() *AppError {
	return &AppError{
		Err:     ErrInvalidToken,
		Message: "invalid or expired token",
	}
}

// Upstream wraps a third-party failure. The cause's message is preserved in
// Message because the image proxy intentionally surfaces it.
func Upstream(context string, cause error) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: fmt.Sprintf("%s: %v", context, cause),
	}
}
