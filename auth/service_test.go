package auth

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/userservice-go/apperror"
	"github.com/user/userservice-go/config"
	"github.com/user/userservice-go/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	tokens := NewTokenService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
	})
	return NewService(st, tokens), st
}

func registerAlice(t *testing.T, svc *Service) *store.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "strongpassword123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	return account
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)

	account := registerAlice(t, svc)
	assert.Equal(t, 1, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.True(t, account.IsActive)

	// The password is stored only as a bcrypt hash.
	assert.NotEqual(t, "strongpassword123", account.PasswordHash)
	assert.True(t, CheckPassword("strongpassword123", account.PasswordHash))
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob",
		Email:    "Bob.Jones@Example.COM",
		Password: "pw123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob.jones@example.com", account.Email)
}

func TestRegisterNeverSerializesHash(t *testing.T) {
	svc, _ := newTestService(t)

	account := registerAlice(t, svc)
	body, err := json.Marshal(account)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), account.PasswordHash)
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "different@example.com",
		Password: "pw123456",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
	assert.Contains(t, err.Error(), "username already exists")

	_, err = svc.Register(context.Background(), RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "pw123456",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
	assert.Contains(t, err.Error(), "email already exists")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "strongpassword123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Len(t, strings.Split(resp.Token, "."), 3)
	assert.Equal(t, "alice", resp.User.Username)

	claims, err := svc.tokens.Decode(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestLoginCollapsesFailureCauses(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)

	// Unknown username and wrong password must be indistinguishable to the
	// caller, so responses do not reveal which usernames exist.
	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Username: "nobody",
		Password: "strongpassword123",
	})
	_, wrongPwErr := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "wrongpassword",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	assert.True(t, apperror.IsAuthError(unknownErr))
	assert.True(t, apperror.IsAuthError(wrongPwErr))
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, st := newTestService(t)
	account := registerAlice(t, svc)

	require.NoError(t, st.Deactivate(context.Background(), account.ID))

	// Correct password on a deactivated account is forbidden, not 401.
	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "strongpassword123",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsForbiddenError(err))
}
