package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	return client, mr
}

func TestAcquireIsFirstWriterWins(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	g := NewGuard(client, time.Minute)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "token-1", "order-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Double-click: second submit with the same token loses.
	ok, err = g.Acquire(ctx, "token-1", "order-2")
	require.NoError(t, err)
	assert.False(t, ok)

	existing, err := g.ExistingOrder(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", existing)
}

func TestExistingOrderUnclaimedToken(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	g := NewGuard(client, time.Minute)
	existing, err := g.ExistingOrder(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestReleaseOnlyByOwner(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	g := NewGuard(client, time.Minute)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "token-1", "order-1")
	require.NoError(t, err)

	// A different order cannot release the claim.
	require.NoError(t, g.Release(ctx, "token-1", "order-2"))
	existing, _ := g.ExistingOrder(ctx, "token-1")
	assert.Equal(t, "order-1", existing)

	require.NoError(t, g.Release(ctx, "token-1", "order-1"))
	existing, _ = g.ExistingOrder(ctx, "token-1")
	assert.Empty(t, existing)
}

func TestClaimExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	g := NewGuard(client, time.Minute)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "token-1", "order-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	ok, err := g.Acquire(ctx, "token-1", "order-2")
	require.NoError(t, err)
	assert.True(t, ok)
}
