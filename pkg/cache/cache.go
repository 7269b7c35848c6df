// Package cache provides a bounded, process-local cache of repository objects.
//
// Entries are evicted in insertion order (FIFO): reading an entry does not
// refresh its position, and overwriting an entry with Set keeps the position of
// its first insertion.
package cache

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the number of entries held by a cache built without the Capacity option
const DefaultCapacity = 100

// Cache is a fixed-capacity key/value cache, safe for concurrent use.
//
// Values are held by reference: a cached pointer is shared by every caller retrieving it.
//
// The recency list of the underlying LRU is only ever updated on insertion: lookups use Peek
// and overwrites change the boxed value in place, so the least recently used entry is the
// oldest insertion.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	lru      *simplelru.LRU[string, *box[V]]
	metrics  *cacheMetrics
}

type box[V any] struct {
	value V
}

// New builds an empty cache
func New[V any](opts ...Option) *Cache[V] {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &Cache[V]{
		capacity: o.capacity,
		lru:      newLRU[V](o.capacity),
		metrics:  o.metrics,
	}
}

func newLRU[V any](capacity int) *simplelru.LRU[string, *box[V]] {
	l, err := simplelru.NewLRU[string, *box[V]](capacity, nil)
	if err != nil {
		// only fails on a non-positive size, which options rule out
		panic(err)
	}
	return l
}

// Add inserts a value only if the key is not already cached.
// It returns false and leaves the cached value unchanged otherwise.
func (c *Cache[V]) Add(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru.Contains(key) {
		return false
	}
	c.insert(key, value)
	return true
}

// Set inserts or overwrites a value
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.lru.Peek(key); ok {
		b.value = value
		return
	}
	c.insert(key, value)
}

func (c *Cache[V]) insert(key string, value V) {
	if evicted := c.lru.Add(key, &box[V]{value: value}); evicted {
		c.metrics.evicted()
	}
	c.metrics.resized(c.lru.Len())
}

// Get returns a cached value
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.lru.Peek(key)
	if !ok {
		c.metrics.miss()
		var zero V
		return zero, false
	}
	c.metrics.hit()
	return b.value, true
}

// Delete removes a key and tells if it was present
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lru.Remove(key) {
		return false
	}
	c.metrics.resized(c.lru.Len())
	return true
}

// Len yields the number of cached entries
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Capacity yields the maximum number of entries
func (c *Cache[V]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// Resize changes the capacity of the cache.
//
// Shrinking the cache drops all entries. Growing it keeps them.
func (c *Cache[V]) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if capacity < c.capacity {
		c.lru.Purge()
		c.metrics.resized(0)
	}
	c.lru.Resize(capacity)
	c.capacity = capacity
}

// Clear drops all entries
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.metrics.resized(0)
}
