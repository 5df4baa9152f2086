package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoadsOnceWithinTTL(t *testing.T) {
	c := New(Options{TTL: time.Minute, MaxEntries: 10}, MetricsHooks{})
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return "value", nil
	}

	v, err := c.Get(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.Get(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := New(Options{TTL: time.Minute}, MetricsHooks{})
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("boom")
	}

	_, err := c.Get(context.Background(), "k", loader)
	require.Error(t, err)
	_, err = c.Get(context.Background(), "k", loader)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestExpiredEntryReloads(t *testing.T) {
	c := New(Options{TTL: time.Millisecond}, MetricsHooks{})
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get(context.Background(), "k", loader)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	v, err := c.Get(context.Background(), "k", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestEvictionFIFO(t *testing.T) {
	c := New(Options{TTL: time.Minute, MaxEntries: 2}, MetricsHooks{})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return 0, nil
	}
	_, _ = c.Get(context.Background(), "a", loader)
	assert.Equal(t, 1, calls, "oldest entry should have been evicted")
}

func TestMetricsHooks(t *testing.T) {
	hits, misses := 0, 0
	c := New(Options{TTL: time.Minute}, MetricsHooks{
		OnHit:  func(string) { hits++ },
		OnMiss: func(string) { misses++ },
	})
	loader := func(ctx context.Context) (interface{}, error) { return 1, nil }

	_, _ = c.Get(context.Background(), "k", loader)
	_, _ = c.Get(context.Background(), "k", loader)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, hits)
}
