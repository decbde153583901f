package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/card-trader/internal/apperror"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows that string
// can read or shadow your value. A package-private key type means only this
// package can store or read identities in a context.
type contextKey string

const identityKey contextKey = "identity"

// ErrorWriter is implemented by the handler package's error responder.
// Taking it as a tiny interface keeps auth free of an import cycle with
// handler while still producing responses in the API's standard shape.
type ErrorWriter interface {
	WriteError(w http.ResponseWriter, err error)
}

// RequireAuth enforces bearer-token authentication on protected routes.
//
// It reads the Authorization header, validates the JWT, and stores the
// verified Identity in the request context. The two failure modes map to
// different statuses, mirroring what the client distinguishes:
//
//   - no token at all          → 401 (apperror.ErrUnauthenticated)
//   - invalid or expired token → 403 (apperror.ErrInvalidToken)
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler.
func RequireAuth(tokens *TokenService, ew ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				ew.WriteError(w, apperror.Unauthenticated())
				return
			}

			id, err := tokens.Validate(raw)
			if err != nil {
				ew.WriteError(w, apperror.InvalidToken())
				return
			}

			// Store the identity so handlers can read it
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireAuth.
//
// Returns (Identity{}, false) on routes that aren't behind the middleware —
// handlers on protected routes can rely on ok being true, but checking it
// anyway costs nothing and catches wiring mistakes.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
