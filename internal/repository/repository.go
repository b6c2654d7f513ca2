package repository

import (
	"context"

	"github.com/sakif/auth-service/internal/model"
)

// UserRepository is the persistence contract for user records.
//
// Emails passed to Create and GetByEmail must already be normalized
// (trimmed, lowercased) by the caller — the service layer owns
// normalization, the store owns uniqueness.
type UserRepository interface {
	// Create inserts a new user, assigning ID and CreatedAt in-place.
	// Returns an error wrapping apperror.ErrConflict if a record with
	// the same normalized email already exists.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns the user with the given normalized email, or an
	// error wrapping apperror.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID returns the user with the given internal ID, or an error
	// wrapping apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)
}
