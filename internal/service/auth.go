// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and structs, never *http.Request, and return
// domain errors (apperror), never status codes. The handler layer owns the
// translation in both directions. Services receive repository INTERFACES,
// not the concrete sqlite type, so tests swap in an in-memory fake with no
// database at all.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/card-trader/internal/apperror"
	"github.com/sakif/card-trader/internal/auth"
	"github.com/sakif/card-trader/internal/model"
	"github.com/sakif/card-trader/internal/repository"
)

// AuthService handles registration, login, and profile reads.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the account and its freshly issued token, so the login
// handler can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// UNIQUENESS IS CHECKED EXHAUSTIVELY, NOT LAZILY:
// Both constraints (username, email) are probed independently and every
// violation is aggregated into a single conflict error. A user fixing their
// registration form should learn about all problems in one round trip, not
// discover the second one after fixing the first.
//
// The probe-then-insert pair is not atomic; the UNIQUE columns in storage
// backstop the rare race where two identical registrations interleave — the
// loser surfaces as a database error rather than a clean conflict, which is
// acceptable for this path.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("usuario", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	usernameTaken, emailTaken, err := s.users.FindConflicts(ctx, username, email)
	if err != nil {
		s.logger.Error("registration uniqueness check failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	// Email first, then username — the order the client lists them in
	var violations []string
	if emailTaken {
		violations = append(violations, "email already registered")
	}
	if usernameTaken {
		violations = append(violations, "username already registered")
	}
	if len(violations) > 0 {
		return nil, apperror.Conflicts(violations)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Wants:        []model.CardEntry{},
		Sells:        []model.CardEntry{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and issues a bearer token.
//
// ENUMERATION RESISTANCE:
// An unknown username and a wrong password both return the identical
// apperror.InvalidCredentials() — status, error type, and message all match,
// so a caller cannot probe which usernames exist. Only genuine
// infrastructure failures (database down) escape as different errors.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("", "username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		s.logger.Error("login lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetProfileByUsername returns the public profile for a username.
// The PasswordHash field never serialises (json:"-"), so handlers can encode
// the returned struct directly.
func (s *AuthService) GetProfileByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	return s.users.GetByUsername(ctx, username)
}

// GetProfileByID returns the profile for an authenticated account id (the
// "me" endpoint). A token whose subject no longer resolves yields NotFound.
func (s *AuthService) GetProfileByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}
