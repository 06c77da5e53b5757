package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("strongpassword123")
	require.NoError(t, err)

	assert.NotEqual(t, "strongpassword123", hash)
	assert.True(t, CheckPassword("strongpassword123", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("samepassword")
	require.NoError(t, err)
	second, err := HashPassword("samepassword")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so equal inputs produce distinct hashes.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("samepassword", first))
	assert.True(t, CheckPassword("samepassword", second))
}

func TestCheckPasswordBadHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}
