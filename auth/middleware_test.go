package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthenticatedMissingHeader(t *testing.T) {
	mw := NewMiddleware(newTestTokenService("test-secret", time.Hour))

	handler := mw.Authenticated(func(ident Identity, w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called without credentials")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authorization header is missing", decodeError(t, rec))
}

func TestAuthenticatedBadHeaderFormat(t *testing.T) {
	mw := NewMiddleware(newTestTokenService("test-secret", time.Hour))

	handler := mw.Authenticated(func(ident Identity, w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called without credentials")
	})

	for _, header := range []string{"tokenonly", "Token abc.def.ghi"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "authorization header format must be Bearer {token}", decodeError(t, rec))
	}
}

func TestAuthenticatedInvalidToken(t *testing.T) {
	mw := NewMiddleware(newTestTokenService("test-secret", time.Hour))

	handler := mw.Authenticated(func(ident Identity, w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called without credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeError(t, rec))
}

func TestAuthenticatedExpiredToken(t *testing.T) {
	tokens := newTestTokenService("test-secret", -time.Minute)
	mw := NewMiddleware(tokens)

	token, err := tokens.Issue(42, "alice")
	require.NoError(t, err)

	handler := mw.Authenticated(func(ident Identity, w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called with an expired token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token has expired", decodeError(t, rec))
}

func TestAuthenticatedForwardsIdentity(t *testing.T) {
	tokens := newTestTokenService("test-secret", time.Hour)
	mw := NewMiddleware(tokens)

	token, err := tokens.Issue(42, "alice")
	require.NoError(t, err)

	var got Identity
	handler := mw.Authenticated(func(ident Identity, w http.ResponseWriter, r *http.Request) {
		got = ident
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	// Scheme matching is case-insensitive.
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, Identity{AccountID: 42, Username: "alice"}, got)
}
