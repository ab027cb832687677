package resolve

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a get-or-compute map. Concurrent misses on the same key share a
// single computation. Errors are cached like values, so a key is computed at
// most once.
//
// compute must not request its own key: singleflight would wait on itself.
type Cache[K comparable, V any] struct {
	key   func(K) string
	group singleflight.Group

	mu sync.RWMutex
	m  map[K]entry[V]
}

type entry[V any] struct {
	v   V
	err error
}

// NewCache returns an empty cache. key renders a K as the singleflight key.
func NewCache[K comparable, V any](key func(K) string) *Cache[K, V] {
	return &Cache[K, V]{key: key, m: make(map[K]entry[V])}
}

// Get returns the cached value of k, computing it on a miss.
func (c *Cache[K, V]) Get(k K, compute func() (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.m[k]
	c.mu.RUnlock()
	if ok {
		return e.v, e.err
	}

	res, _, _ := c.group.Do(c.key(k), func() (any, error) {
		c.mu.RLock()
		e, ok := c.m[k]
		c.mu.RUnlock()
		if ok {
			return e, nil
		}
		v, err := compute()
		e = entry[V]{v: v, err: err}
		c.mu.Lock()
		c.m[k] = e
		c.mu.Unlock()
		return e, nil
	})
	e = res.(entry[V])
	return e.v, e.err
}

// Len returns the number of cached keys.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
