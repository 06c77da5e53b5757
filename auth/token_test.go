package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/userservice-go/config"
)

func newTestTokenService(secret string, duration time.Duration) *TokenService {
	return NewTokenService(config.AuthConfig{
		JWTSecret:     secret,
		TokenDuration: duration,
	})
}

func TestTokenRoundtrip(t *testing.T) {
	svc := newTestTokenService("test-secret", time.Hour)

	token, err := svc.Issue(42, "alice")
	require.NoError(t, err)
	// Compact JWS serialization: header.payload.signature.
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

func TestTokenExpired(t *testing.T) {
	svc := newTestTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(42, "alice")
	require.NoError(t, err)

	_, err = svc.Decode(token)
	require.Error(t, err)
	// Expired with a valid signature must report as expired, never as a
	// signature failure.
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenWrongKey(t *testing.T) {
	issuer := newTestTokenService("key-one", time.Hour)
	verifier := newTestTokenService("key-two", time.Hour)

	token, err := issuer.Issue(42, "alice")
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenTampered(t *testing.T) {
	svc := newTestTokenService("test-secret", time.Hour)

	token, err := svc.Issue(42, "alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = svc.Decode(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenMalformed(t *testing.T) {
	svc := newTestTokenService("test-secret", time.Hour)

	for _, bad := range []string{"", "garbage", "a.b", "not a token at all"} {
		_, err := svc.Decode(bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", bad)
	}
}
