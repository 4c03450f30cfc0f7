package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript increments the counter and starts its expiry on the first hit of
// a window, so the window boundary is fixed by the first request.
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`)

// RedisStore shares fixed windows between proxy replicas.
type RedisStore struct {
	client *redis.Client
	length time.Duration
	prefix string
}

func NewRedisStore(client *redis.Client, length time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		length: length,
		prefix: "ratelimit:",
	}
}

func (s *RedisStore) Hit(ctx context.Context, key string) (int, time.Time, error) {
	vals, err := hitScript.Run(ctx, s.client, []string{s.prefix + key}, s.length.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit hit: %w", err)
	}
	if len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit hit: unexpected reply %v", vals)
	}

	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl < 0 {
		ttl = s.length
	}
	return int(vals[0]), time.Now().Add(ttl), nil
}
