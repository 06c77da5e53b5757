package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/userservice-go/apperror"
	"github.com/user/userservice-go/store"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewService(st), st
}

func seedAccount(t *testing.T, st *store.MemoryStore, username, email string) *store.Account {
	t.Helper()
	account, err := st.Create(context.Background(), &store.Account{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
	})
	require.NoError(t, err)
	return account
}

func TestGetSelf(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")

	got, err := svc.GetSelf(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestGetSelfVanishedAccount(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")
	require.NoError(t, st.DeleteAll(context.Background()))

	// A token for a record that no longer exists no longer proves a live
	// identity, so the failure is 401, not 404.
	_, err := svc.GetSelf(context.Background(), alice.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsAuthError(err))
}

func TestGetSelfDeactivated(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")
	require.NoError(t, st.Deactivate(context.Background(), alice.ID))

	// Deactivation restricts login and listing, not reading your own record.
	got, err := svc.GetSelf(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestGetByIDSelf(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")

	got, err := svc.GetByID(context.Background(), alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
}

func TestGetByIDForbiddenBeforeExistence(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")
	bob := seedAccount(t, st, "bob", "bob@example.com")

	// An existing other account is forbidden.
	_, err := svc.GetByID(context.Background(), alice.ID, bob.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbiddenError(err))

	// So is a nonexistent one: authorization wins over existence, which keeps
	// the response from revealing whether the id is taken.
	_, err = svc.GetByID(context.Background(), alice.ID, 999)
	require.Error(t, err)
	assert.True(t, apperror.IsForbiddenError(err))
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")

	got, err := svc.UpdateProfile(context.Background(), alice.ID, alice.ID, &UpdateUserProfileRequest{
		FirstName: strPtr("Alicia"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "User", got.LastName)
	assert.Equal(t, "alice", got.Username)
}

func TestUpdateProfileForbidden(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")
	bob := seedAccount(t, st, "bob", "bob@example.com")

	_, err := svc.UpdateProfile(context.Background(), alice.ID, bob.ID, &UpdateUserProfileRequest{
		FirstName: strPtr("Hacked"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsForbiddenError(err))
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")
	seedAccount(t, st, "bob", "bob@example.com")

	_, err := svc.UpdateProfile(context.Background(), alice.ID, alice.ID, &UpdateUserProfileRequest{
		Email: strPtr("bob@example.com"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
}

func TestDeactivate(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")

	require.NoError(t, svc.Deactivate(context.Background(), alice.ID, alice.ID))

	got, err := st.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Idempotent.
	assert.NoError(t, svc.Deactivate(context.Background(), alice.ID, alice.ID))
}

func TestDeactivateForbidden(t *testing.T) {
	svc, st := newTestService(t)
	alice := seedAccount(t, st, "alice", "alice@example.com")
	bob := seedAccount(t, st, "bob", "bob@example.com")

	err := svc.Deactivate(context.Background(), alice.ID, bob.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbiddenError(err))
}

func TestListActive(t *testing.T) {
	svc, st := newTestService(t)
	seedAccount(t, st, "alice", "alice@example.com")
	bob := seedAccount(t, st, "bob", "bob@example.com")
	require.NoError(t, st.Deactivate(context.Background(), bob.ID))

	accounts, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Username)
}
