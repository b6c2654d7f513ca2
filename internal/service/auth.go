// Package service — authentication business logic.
//
// AuthService is the business logic layer for authentication. It sits
// between the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT) / PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Validate and normalize registration/login input
//   - Enforce the credential rules: one account per normalized email,
//     indistinguishable failures for unknown email vs wrong password
//   - Issue session tokens with the right lifetime (1 day, or 7 with
//     "remember me")
//
// The service never touches HTTP: no cookies, no status codes. Handlers
// translate its errors via the apperror sentinels.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/auth-service/internal/apperror"
	"github.com/sakif/auth-service/internal/auth"
	"github.com/sakif/auth-service/internal/model"
	"github.com/sakif/auth-service/internal/repository"
)

// invalidCredentials is the single message for every login failure a
// client may cause. Unknown email and wrong password must be
// indistinguishable, otherwise the endpoint leaks which addresses are
// registered.
const invalidCredentials = "Invalid credentials"

// AuthService handles the authentication business logic.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
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

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload of a login request. Remember extends the
// session (and cookie) lifetime from one day to seven.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// LoginResult bundles the authenticated user with the issued token and
// its lifetime, so the handler can set the cookie and respond in one step.
type LoginResult struct {
	User  *model.User
	Token string
	TTL   time.Duration
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every store lookup and every insert goes through this, so "  ADA@X.com "
// and "ada@x.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account.
//
// Validation failures return apperror.ErrValidation; a duplicate
// normalized email surfaces as apperror.ErrConflict straight from the
// store's UNIQUE constraint — there is no separate existence check, so
// concurrent duplicate registrations cannot both succeed.
//
// Registration deliberately does NOT issue a session token. The client
// is expected to log in separately; that is the documented contract, not
// an oversight.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)

	switch {
	case name == "":
		return nil, apperror.ValidationFailed("name", "Name, email and password are required.")
	case email == "":
		return nil, apperror.ValidationFailed("email", "Name, email and password are required.")
	case in.Password == "":
		return nil, apperror.ValidationFailed("password", "Name, email and password are required.")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user (email=%s): %w", email, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies credentials and issues a session token.
//
// Both failure causes a client can control — no account with that email,
// and a wrong password — return the identical apperror.ErrUnauthorized
// with the same message. Anything else (store failure, signer failure)
// propagates as an internal error and is never shown to the client.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)

	switch {
	case email == "":
		return nil, apperror.ValidationFailed("email", "Email and password required")
	case in.Password == "":
		return nil, apperror.ValidationFailed("password", "Email and password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up user (email=%s): %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	ttl := auth.SessionTTL
	if in.Remember {
		ttl = auth.RememberSessionTTL
	}

	token, err := s.tokens.Generate(auth.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, ttl)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.Bool("remember", in.Remember),
	)

	return &LoginResult{
		User:  user,
		Token: token,
		TTL:   ttl,
	}, nil
}
