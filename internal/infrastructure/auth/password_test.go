package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCredentials(t *testing.T) {
	t.Run("from clear text password", func(t *testing.T) {
		creds, err := NewAdminCredentials("admin", "s3cret", "")
		require.NoError(t, err)

		assert.NoError(t, creds.Verify("admin", "s3cret"))
		assert.ErrorIs(t, creds.Verify("admin", "wrong"), ErrInvalidCredentials)
		assert.ErrorIs(t, creds.Verify("root", "s3cret"), ErrInvalidCredentials)
		assert.Equal(t, "admin", creds.Username())
	})

	t.Run("from bcrypt hash", func(t *testing.T) {
		hash, err := HashPassword("hunter2")
		require.NoError(t, err)

		creds, err := NewAdminCredentials("boss", "ignored", hash)
		require.NoError(t, err)
		assert.NoError(t, creds.Verify("boss", "hunter2"))
		assert.Error(t, creds.Verify("boss", "ignored"))
	})

	t.Run("invalid setup", func(t *testing.T) {
		_, err := NewAdminCredentials("", "x", "")
		assert.Error(t, err)
		_, err = NewAdminCredentials("admin", "", "")
		assert.Error(t, err)
		_, err = NewAdminCredentials("admin", "", "plain-text-not-bcrypt")
		assert.Error(t, err)
	})
}
