// Package auth is responsible for authentication and authorization: password
// hashing, bearer-token issuance and validation, the self-only access policy,
// and the registration and login flows built on them.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/user/userservice-go/apperror"
	"github.com/user/userservice-go/store"
)

// Service implements registration and login on top of the account store and
// the token service.
type Service struct {
	store  store.Store
	tokens *TokenService
}

// NewService creates a new auth Service.
func NewService(st store.Store, tokens *TokenService) *Service {
	return &Service{
		store:  st,
		tokens: tokens,
	}
}

// Register hashes the password and creates a new active account. Username and
// email conflicts are two independent causes, each reported as its own
// conflict error. The returned account never carries password material beyond
// the non-serialized hash field.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*store.Account, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	account := &store.Account{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	created, err := s.store.Create(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			return nil, apperror.NewConflictError("username already exists", nil)
		case errors.Is(err, store.ErrEmailTaken):
			return nil, apperror.NewConflictError("email already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return created, nil
}

// Login verifies the credentials and, on success, issues a bearer token.
// An unknown username and a wrong password collapse to the same outward
// error so that responses do not reveal which usernames exist. A correct
// password on a deactivated account is rejected with a forbidden error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	account, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewAuthError("invalid credentials", nil)
		}
		log.Printf("database error in Login looking up %q: %v", req.Username, err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if !CheckPassword(req.Password, account.PasswordHash) {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	if !account.IsActive {
		return nil, apperror.NewForbiddenError("user account is inactive", nil)
	}

	token, err := s.tokens.Issue(account.ID, account.Username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    account,
	}, nil
}
