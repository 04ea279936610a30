package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("speak-friend")
	require.NoError(t, err)
	assert.NotEqual(t, "speak-friend", hash)

	assert.True(t, hasher.Verify("speak-friend", hash))
	assert.False(t, hasher.Verify("mellon", hash))
	assert.False(t, hasher.Verify("speak-friend", "not-a-hash"))
}

func TestTokenManager(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	raw, err := tokens.Issue("user-1")
	require.NoError(t, err)

	uid, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	t.Run("wrong signing secret", func(t *testing.T) {
		_, err := NewTokenManager("other-secret", time.Hour).Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewTokenManager("secret", -time.Minute).Issue("user-1")
		require.NoError(t, err)
		_, err = tokens.Verify(expired)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
