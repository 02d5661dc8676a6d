package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "leadintake:ratelimit:"

// RedisStore provides fixed-window rate limiting on a shared Redis instance,
// for deployments running more than one intake replica.
type RedisStore struct {
	client *redis.Client
	window time.Duration
	max    int
}

// NewRedisStore creates a Redis-backed store admitting max submissions per
// identity per window.
func NewRedisStore(client *redis.Client, window time.Duration, max int) *RedisStore {
	return &RedisStore{client: client, window: window, max: max}
}

// Admit counts the submission with an atomic INCR. The window opens on the
// first submission for an identity and closes when the key expires. Unlike
// the in-memory store the counter keeps advancing past the limit, which does
// not change any admission decision because the expiry is fixed at window
// start.
func (s *RedisStore) Admit(ctx context.Context, identity string) (bool, error) {
	key := redisKeyPrefix + identity

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit: incr %s: %w", identity, err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit: expire %s: %w", identity, err)
		}
	}

	return count <= int64(s.max), nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
