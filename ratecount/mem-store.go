package ratecount

import (
	"context"
	"sync"
	"time"
)

type slot struct {
	count   int
	resetAt time.Time
}

// MemStore is a fixed-window counter backed by an in-process map. It is
// authoritative only within a single process; multi-instance deployments
// should use RedisStore so all instances share one counter.
type MemStore struct {
	mu    sync.Mutex
	slots map[string]slot
}

func NewMemStore() *MemStore {
	return &MemStore{slots: make(map[string]slot)}
}

// Incr bumps the counter for key in its current window and returns the new
// count together with the moment the window resets. Expired windows are
// replaced, not carried over.
func (s *MemStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	if window <= 0 {
		window = time.Minute
	}
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(now)

	curr, ok := s.slots[key]
	if !ok || now.After(curr.resetAt) {
		curr = slot{count: 0, resetAt: now.Add(window)}
	}
	curr.count++
	s.slots[key] = curr
	return curr.count, curr.resetAt, nil
}

func (s *MemStore) expire(now time.Time) {
	for k, v := range s.slots {
		if now.After(v.resetAt) {
			delete(s.slots, k)
		}
	}
}
