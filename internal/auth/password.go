// Package auth — password hashing utilities.
//
// bcrypt is deliberately slow, generates a random salt per hash, and
// embeds the salt in its output, so the stored digest is self-contained:
//
//	$2a$10$<22-char salt><31-char hash>
//
// Never store plaintext or fast hashes (MD5, SHA-256) — those fall to
// GPU brute force in minutes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in
// tests — bcrypt.MinCost makes tests fast without changing the logic
// under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with bcrypt.DefaultCost (10).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: bcrypt.DefaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Use bcrypt.MinCost in tests to avoid the real work factor's latency.
// Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// Store the returned string directly — it includes the salt and cost, and
// bcrypt.CompareHashAndPassword knows how to decode it.
//
// Returns an error for passwords over 72 bytes: bcrypt silently truncates
// beyond that, so we reject explicitly rather than surprise callers.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on match. bcrypt's comparison is constant-time, so this is
// safe against timing attacks.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
