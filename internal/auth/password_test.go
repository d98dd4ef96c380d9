package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", digest)

	ok, err := VerifyPassword("s3cret", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	_, err := VerifyPassword("s3cret", "not-a-bcrypt-digest")
	assert.ErrorIs(t, err, ErrHashing)
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	first, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
