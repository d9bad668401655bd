package cooldown

import (
	"context"
	"time"

	"github.com/clipstream/clipstream/internal/cache"
)

// RedisStore claims cooldown windows in Redis via SET NX PX, so cooldowns
// hold across multiple server instances.
type RedisStore struct {
	client *cache.RedisClient
}

// NewRedisStore wraps a connected Redis client as a cooldown store
func NewRedisStore(client *cache.RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

// Attempt claims the window for key if it is not already claimed
func (s *RedisStore) Attempt(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	set, err := s.client.SetNX(ctx, key, 1, window)
	if err != nil {
		return false, 0, err
	}
	if set {
		return true, 0, nil
	}

	remaining, err := s.client.PTTL(ctx, key)
	if err != nil || remaining < 0 {
		// Key expired between SETNX and PTTL; treat the full window as remaining
		// rather than claiming out of order.
		remaining = window
	}
	return false, remaining, nil
}
