package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/auth-service/internal/apperror"
	"github.com/sakif/auth-service/internal/model"
	"github.com/sakif/auth-service/internal/repository"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user row, assigning ID and CreatedAt in-place.
//
// Uniqueness is enforced by the UNIQUE index on email, not by a prior
// SELECT: a duplicate insert fails atomically inside SQLite, and that
// failure is translated into apperror.ErrConflict. Two concurrent
// registrations with the same normalized email therefore cannot both
// succeed — one of them always sees the constraint violation.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by their normalized email.
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM users WHERE email = ?`, email)
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM users WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, query, key string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, key).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}

	return &u, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure (extended result code SQLITE_CONSTRAINT_UNIQUE).
func isUniqueViolation(err error) bool {
	var serr *sqlitedrv.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
