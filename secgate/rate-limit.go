package secgate

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultRateLimit  = 30
	DefaultRateWindow = time.Minute
)

// CounterStore is the shared fixed-window counter behind CheckRateLimit.
// Incr must be atomic per key: two concurrent calls may never observe the
// same count. Process-local implementations only limit correctly when a
// single instance is running.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// CheckRateLimit counts one request against key and rejects it once the
// window budget is exhausted. A failing counter store allows the request
// through with a warning rather than taking the primary path down.
func (g *Gateway) CheckRateLimit(ctx context.Context, key string) error {
	count, resetAt, err := g.counter.Incr(ctx, key, g.window)
	if err != nil {
		g.logger.Warn("rate limit counter failed, allowing request",
			"key", key, "error", err)
		return nil
	}
	if count > g.limit {
		return newErrRateLimitExceeded().SetDebug(
			fmt.Errorf("key %s at %d/%d, window resets %s",
				key, count, g.limit, resetAt.Format(time.RFC3339)))
	}
	return nil
}
