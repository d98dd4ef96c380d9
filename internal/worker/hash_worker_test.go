package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPoolProducesValidDigest(t *testing.T) {
	pool := NewHashPool(2, bcrypt.MinCost, zap.NewNop())
	defer pool.Close()

	digest, err := pool.Hash(context.Background(), "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(digest), []byte("s3cret")))
}

func TestHashPoolHonorsContextCancellation(t *testing.T) {
	pool := NewHashPool(1, bcrypt.MinCost, zap.NewNop())
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pool.Hash(ctx, "s3cret")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashPoolClosed(t *testing.T) {
	pool := NewHashPool(1, bcrypt.MinCost, zap.NewNop())
	pool.Close()

	_, err := pool.Hash(context.Background(), "s3cret")
	assert.ErrorIs(t, err, ErrPoolClosed)
}
