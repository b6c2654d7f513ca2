// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The email is the uniqueness key: it is trimmed and lowercased before
// storage and before every lookup, and the database enforces at most one
// row per normalized address. The internal ID is an xid string assigned
// by the repository at creation time.
//
// PasswordHash holds the bcrypt digest — never the plaintext. The json:"-"
// tag guarantees it can never leak through a JSON response, even if a
// handler accidentally encodes the full struct.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"` // normalized: trimmed + lowercased
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// PublicUser is the sanitized projection returned by API responses.
// It carries identity fields only — no credential material.
type PublicUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Public returns the sanitized projection of u, including CreatedAt.
// Used by the registration response.
func (u *User) Public() PublicUser {
	created := u.CreatedAt
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: &created,
	}
}

// Identity returns the projection embedded in session tokens and returned
// by login and session lookup: id, name, and email only.
func (u *User) Identity() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
