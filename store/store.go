// Package store defines the account model and the persistence interface used
// by the auth and users services, together with its PostgreSQL and in-memory
// implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// Account represents a registered user account.
// PasswordHash is tagged `json:"-"` so it can never appear in an outward
// representation, regardless of which layer serializes the struct.
type Account struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// ProfileUpdate carries a partial profile change. Nil fields are left
// untouched; username and password are deliberately not representable here.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// Sentinel errors returned by Store implementations. Callers match them with
// errors.Is and translate them to the API error taxonomy.
var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrUsernameTaken is returned when an insert violates username uniqueness.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when a write violates email uniqueness.
	ErrEmailTaken = errors.New("email already exists")
)

// Store is the persistence contract for accounts. Uniqueness of username and
// email is enforced by implementations at write time, across active and
// deactivated accounts alike.
type Store interface {
	// Create inserts a new account and returns it with ID and CreatedAt
	// assigned. Returns ErrUsernameTaken or ErrEmailTaken on conflicts.
	Create(ctx context.Context, account *Account) (*Account, error)
	// GetByID returns the account with the given id, active or not.
	GetByID(ctx context.Context, id int) (*Account, error)
	// GetByUsername returns the account with the given username, active or not.
	GetByUsername(ctx context.Context, username string) (*Account, error)
	// Update applies the non-nil fields of upd to the account and returns the
	// updated row. Returns ErrNotFound if the account is absent and
	// ErrEmailTaken if the new email collides with another account.
	Update(ctx context.Context, id int, upd ProfileUpdate) (*Account, error)
	// Deactivate sets is_active to false. Deactivating an already inactive
	// account succeeds. Returns ErrNotFound if the account is absent.
	Deactivate(ctx context.Context, id int) error
	// ListActive returns all active accounts in a stable order.
	ListActive(ctx context.Context) ([]Account, error)
	// DeleteAll removes every account. Test environments only; the HTTP layer
	// never exposes it in production.
	DeleteAll(ctx context.Context) error
}
