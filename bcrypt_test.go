package userauth_test

import (
	"testing"

	"github.com/goliatone/go-userauth"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a non-empty password", func(t *testing.T) {
		hash, err := userauth.HashPassword("super-secret")

		assert.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "super-secret", hash)
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		hash, err := userauth.HashPassword("")

		assert.ErrorIs(t, err, userauth.ErrNoEmptyString)
		assert.Empty(t, hash)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := userauth.HashPassword("super-secret")
	assert.NoError(t, err)

	t.Run("accepts the original password", func(t *testing.T) {
		assert.NoError(t, userauth.ComparePasswordAndHash("super-secret", hash))
	})

	t.Run("rejects a different password", func(t *testing.T) {
		err := userauth.ComparePasswordAndHash("not-the-password", hash)
		assert.ErrorIs(t, err, userauth.ErrInvalidCredentials)
	})

	t.Run("rejects garbage hashes", func(t *testing.T) {
		err := userauth.ComparePasswordAndHash("super-secret", "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}
