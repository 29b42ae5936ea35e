package ratecount_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/luminara-app/backend/ratecount"
)

func TestMemStoreCountsWithinWindow(t *testing.T) {
	store := ratecount.NewMemStore()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		count, resetAt, err := store.Incr(ctx, "owner-1", 50*time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, want, count)
		require.True(t, resetAt.After(time.Now().UTC().Add(-time.Second)))
	}

	// independent key, independent counter
	count, _, err := store.Incr(ctx, "owner-2", 50*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMemStoreResetsAfterWindow(t *testing.T) {
	store := ratecount.NewMemStore()
	ctx := context.Background()

	count, _, err := store.Incr(ctx, "k", 30*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	time.Sleep(50 * time.Millisecond)

	count, _, err = store.Incr(ctx, "k", 30*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, count, "window expiry must reset the count")
}

func TestRedisStoreCountsAndResets(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := ratecount.NewRedisStore(client)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		count, _, err := store.Incr(ctx, "owner-1", 25*time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, want, count)
	}

	mr.FastForward(30 * time.Millisecond)

	count, _, err := store.Incr(ctx, "owner-1", 25*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, count, "expired redis key must restart the count")
}

func TestRedisStoreFallsBackWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  5 * time.Millisecond,
		ReadTimeout:  5 * time.Millisecond,
		WriteTimeout: 5 * time.Millisecond,
		MaxRetries:   0,
	})
	store := ratecount.NewRedisStore(client)
	ctx := context.Background()

	count, _, err := store.Incr(ctx, "k", time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, _, err = store.Incr(ctx, "k", time.Second)
	require.NoError(t, err)
	require.Equal(t, 2, count, "fallback must keep counting per process")
}
