package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Guard binds a client-generated idempotency token to the order it produced,
// so a double-submitted checkout short-circuits to the first order instead
// of charging twice. Entries expire after the configured TTL.
type Guard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Guard{Client: client, TTL: ttl}
}

func key(token string) string {
	return "checkout_idem:" + token
}

// Acquire claims the token for orderID. Returns true when this caller won
// the claim; false when another checkout already holds it.
func (g *Guard) Acquire(ctx context.Context, token, orderID string) (bool, error) {
	return g.Client.SetNX(ctx, key(token), orderID, g.TTL).Result()
}

// ExistingOrder returns the order id already bound to the token, or "" when
// the token is unclaimed.
func (g *Guard) ExistingOrder(ctx context.Context, token string) (string, error) {
	val, err := g.Client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Release drops the claim, but only if it still belongs to orderID. Used
// when order creation fails after the claim so the buyer can retry.
func (g *Guard) Release(ctx context.Context, token, orderID string) error {
	val, err := g.Client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val == orderID {
		return g.Client.Del(ctx, key(token)).Err()
	}
	return nil
}
