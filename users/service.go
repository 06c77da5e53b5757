// Package users encapsulates profile management for existing accounts:
// reading profiles, partial updates, soft deactivation, and listing active
// accounts. Registration and login live in the auth package.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/userservice-go/apperror"
	"github.com/user/userservice-go/auth"
	"github.com/user/userservice-go/store"
)

// Service provides profile operations over the account store. Authorization
// is checked before existence on every targeted operation, so a non-self
// target yields a forbidden error even when the id does not exist.
type Service struct {
	store store.Store
}

// NewService creates a new users Service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// GetSelf returns the caller's own account. If the account has vanished
// (removed by the test-only cleanup), the caller's token no longer proves a
// live identity and the error is an authentication failure, not a 404.
func (s *Service) GetSelf(ctx context.Context, callerID int) (*store.Account, error) {
	account, err := s.store.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewAuthError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return account, nil
}

// GetByID returns the target account after the self-only authorization
// check. A deactivated account can still read its own data: deactivation
// restricts login and listing, it does not delete the record.
func (s *Service) GetByID(ctx context.Context, callerID, targetID int) (*store.Account, error) {
	if err := auth.Authorize(callerID, targetID); err != nil {
		return nil, err
	}

	account, err := s.store.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", targetID), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return account, nil
}

// UpdateProfile applies the non-nil fields of the request to the target
// account. Absent fields are left untouched; username and password are never
// mutated by this operation.
func (s *Service) UpdateProfile(ctx context.Context, callerID, targetID int, req *UpdateUserProfileRequest) (*store.Account, error) {
	if err := auth.Authorize(callerID, targetID); err != nil {
		return nil, err
	}

	upd := store.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	account, err := s.store.Update(ctx, targetID, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", targetID), nil)
		case errors.Is(err, store.ErrEmailTaken):
			return nil, apperror.NewConflictError("email already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	return account, nil
}

// Deactivate soft-deletes the target account. The operation is idempotent:
// deactivating an already-inactive account succeeds silently.
func (s *Service) Deactivate(ctx context.Context, callerID, targetID int) error {
	if err := auth.Authorize(callerID, targetID); err != nil {
		return err
	}

	if err := s.store.Deactivate(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", targetID), nil)
		}
		return apperror.NewDatabaseError("failed to deactivate user", err)
	}
	return nil
}

// ListActive returns every active account. Any authenticated caller may
// list; deactivated accounts are excluded but their records persist.
func (s *Service) ListActive(ctx context.Context) ([]store.Account, error) {
	accounts, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	return accounts, nil
}
