// Package cache is a small in-process TTL cache with singleflight loading,
// used in front of expensive read paths (trend aggregations). Entries are
// evicted FIFO once MaxEntries is exceeded.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Options struct {
	TTL        time.Duration
	MaxEntries int
}

// MetricsHooks lets callers plug Prometheus counters in without the cache
// depending on a metrics registry.
type MetricsHooks struct {
	OnHit   func(key string)
	OnMiss  func(key string)
	OnStore func(key string)
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	items   map[string]*entry
	order   []string
	opts    Options
	metrics MetricsHooks
	sf      singleflight.Group
}

func New(opts Options, hooks MetricsHooks) *Cache {
	return &Cache{
		items:   make(map[string]*entry),
		order:   make([]string, 0, 64),
		opts:    opts,
		metrics: hooks,
	}
}

// Loader computes the value for a key on cache miss.
type Loader func(ctx context.Context) (interface{}, error)

// Get returns the cached value for key, or runs loader under singleflight
// and stores the result. Loader errors are never cached.
func (c *Cache) Get(ctx context.Context, key string, loader Loader) (interface{}, error) {
	now := time.Now()
	c.mu.RLock()
	if e, ok := c.items[key]; ok && now.Before(e.expiresAt) {
		val := e.value
		c.mu.RUnlock()
		if c.metrics.OnHit != nil {
			c.metrics.OnHit(key)
		}
		return val, nil
	}
	c.mu.RUnlock()

	if c.metrics.OnMiss != nil {
		c.metrics.OnMiss(key)
	}
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		val, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, val)
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Set stores a value under key with the configured TTL.
func (c *Cache) Set(key string, val interface{}) {
	e := &entry{value: val, expiresAt: time.Now().Add(c.opts.TTL)}
	c.mu.Lock()
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = e
	c.evictIfNeeded()
	c.mu.Unlock()
	if c.metrics.OnStore != nil {
		c.metrics.OnStore(key)
	}
}

// Delete drops a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}

func (c *Cache) evictIfNeeded() {
	if c.opts.MaxEntries <= 0 {
		return
	}
	for len(c.items) > c.opts.MaxEntries && len(c.order) > 0 {
		victim := c.order[0]
		c.order = c.order[1:]
		delete(c.items, victim)
	}
}
