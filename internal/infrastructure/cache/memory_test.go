package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_CounterWithExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	m := NewMemoryCache()
	m.now = func() time.Time { return clock }

	n, err := m.GetInt(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = m.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, m.Expire(ctx, "k", time.Minute))

	n, _ = m.Increment(ctx, "k")
	assert.Equal(t, int64(2), n)

	clock = clock.Add(20 * time.Second)
	ttl, err := m.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, ttl)

	clock = clock.Add(time.Minute)
	n, _ = m.GetInt(ctx, "k")
	assert.Zero(t, n, "expired counters read as zero")

	ttl, _ = m.TTL(ctx, "k")
	assert.Zero(t, ttl)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	_, _ = m.Increment(ctx, "a")
	_, _ = m.Increment(ctx, "b")
	require.NoError(t, m.Delete(ctx, "a", "missing"))

	a, _ := m.GetInt(ctx, "a")
	b, _ := m.GetInt(ctx, "b")
	assert.Zero(t, a)
	assert.Equal(t, int64(1), b)
	assert.NoError(t, m.Ping(ctx))
}
