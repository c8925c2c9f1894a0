package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces a verifiable bcrypt hash", func(t *testing.T) {
		hash, err := HashPassword("admin123")
		require.NoError(t, err)
		assert.True(t, IsBcryptHash(hash))
		assert.True(t, CheckPasswordHash("admin123", hash))
	})

	t.Run("hashes at the configured cost", func(t *testing.T) {
		hash, err := HashPassword("admin123")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, BcryptCost, cost)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := HashPassword("admin123")
		require.NoError(t, err)
		h2, err := HashPassword("admin123")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	t.Run("rejects wrong password", func(t *testing.T) {
		assert.False(t, CheckPasswordHash("wrong-horse", hash))
	})

	t.Run("rejects near-miss password", func(t *testing.T) {
		assert.False(t, CheckPasswordHash("correct-horsE", hash))
	})

	t.Run("rejects garbage hash", func(t *testing.T) {
		assert.False(t, CheckPasswordHash("correct-horse", "not-a-hash"))
	})
}

func TestIsBcryptHash(t *testing.T) {
	assert.True(t, IsBcryptHash("$2a$12$abcdefghijklmnopqrstuv"))
	assert.True(t, IsBcryptHash("$2b$12$abcdefghijklmnopqrstuv"))
	assert.False(t, IsBcryptHash("plaintext"))
	assert.False(t, IsBcryptHash(""))
}
