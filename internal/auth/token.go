// Package auth provides the session token and password primitives for the
// authentication API.
//
// SESSION FLOW:
// 1. POST /api/auth/login verifies the password against the stored bcrypt hash
// 2. Server issues a signed JWT carrying the identity claim {id, name, email}
// 3. The JWT is stored in an HttpOnly cookie named "token" (or sent by API
//    clients as "Authorization: Bearer <token>")
// 4. GET /api/auth/me validates the token and returns the identity claim
//    exactly as it was signed at login time — no database round-trip
//
// The token is stateless: the server keeps no session table. The HMAC
// signature is the only thing preventing tampering, so the secret must be
// long, random, and never checked into source control.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session lifetimes. A plain login gets one day; "remember me" gets seven.
// The cookie MaxAge must mirror whichever of these was used at issuance.
const (
	SessionTTL         = 24 * time.Hour
	RememberSessionTTL = 7 * 24 * time.Hour
)

const issuer = "auth-service"

// Identity is the user projection embedded in every session token.
//
// It is captured at login time: if the backing record changes afterwards,
// /me keeps returning the claims as signed until the user logs in again.
// That staleness is intentional — validating a token must not require a
// store lookup.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenService issues and validates signed session tokens.
//
// It holds the HMAC secret used for both operations. The secret is fixed
// at process start (see config.Load) and read-only afterwards.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload: the registered claims (sub = user ID, iat,
// exp, iss) plus the name and email needed to answer /me without a
// database lookup.
type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given identity,
// valid for the duration ttl (SessionTTL or RememberSessionTTL).
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for
// signing and verifying. Fine for a single-service deployment; switch to
// RS256 if tokens ever need to be verified by other services.
func (s *TokenService) Generate(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Name:  id.Name,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token string and returns the
// identity claim it carries.
//
// Checks performed by the jwt library:
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired (exp is in the future, and exp is required)
//   - Issuer matches (rejects tokens minted by other apps sharing a secret)
//   - Algorithm is HS256 (jwt.WithValidMethods blocks algorithm
//     confusion attacks, e.g. a token claiming alg "none")
//
// All failure modes collapse into a single opaque error — callers must
// not be able to distinguish "expired" from "tampered" in responses.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, errors.New("auth: token has no subject")
	}

	return Identity{
		ID:    c.Subject,
		Name:  c.Name,
		Email: c.Email,
	}, nil
}
