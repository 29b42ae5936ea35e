package ratecount

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var incrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisStore is a fixed-window counter shared across instances. INCR and
// PEXPIRE run in one script so concurrent increments on the same key cannot
// race the expiry. When redis is unreachable the store degrades to its
// in-process fallback, which still limits per instance.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	fallback *MemStore
	logger   *slog.Logger
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "rl:",
		fallback: NewMemStore(),
		logger:   slog.Default().With("module", "ratecount"),
	}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	if window <= 0 {
		window = time.Minute
	}
	if s.client == nil {
		return s.fallback.Incr(ctx, key, window)
	}

	res, err := incrScript.Run(ctx, s.client, []string{s.prefix + key},
		window.Milliseconds()).Result()
	if err != nil {
		s.logger.Warn("redis counter unavailable, using in-process fallback",
			"key", key, "error", err)
		return s.fallback.Incr(ctx, key, window)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected counter script reply: %v", res)
	}
	count, _ := vals[0].(int64)
	ttlMs, _ := vals[1].(int64)
	if ttlMs < 0 {
		ttlMs = window.Milliseconds()
	}
	resetAt := time.Now().UTC().Add(time.Duration(ttlMs) * time.Millisecond)
	return int(count), resetAt, nil
}
