// Package expcache provides a bounded in-memory cache for generated
// free-text explanations, keyed by a digest of the record and payload.
// The language model is the slowest collaborator in the request path;
// repeat requests with the same preferences should not pay for it twice.
package expcache

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cache stores explanations by digest.
type Cache interface {
	// Get returns the cached explanation for key, if present.
	Get(ctx context.Context, key string) (string, bool)

	// Put records an explanation for key, evicting the oldest entry
	// when the cache is full. Empty values are not stored.
	Put(ctx context.Context, key, value string)

	Size() int64
}

// entry is a node in the insertion-order list used for eviction.
type entry struct {
	key   string
	value string
	next  *entry
}

// inMemoryCache implements Cache with a map plus an insertion-order
// linked list. Eviction drops the oldest entry when the configured
// bound is reached; unbounded mode (maxSize <= 0) never evicts.
type inMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	head    *entry // oldest
	tail    *entry // newest
	maxSize int
	size    atomic.Int64
}

// New creates a cache with configuration options.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 4096, // default bound
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*entry)
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	return e.value, true
}

func (c *inMemoryCache) Put(ctx context.Context, key, value string) {
	if value == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evict()
	}

	e := &entry{key: key, value: value}
	if c.tail != nil {
		c.tail.next = e
	} else {
		c.head = e
	}
	c.tail = e
	c.entries[key] = e
	c.size.Add(1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}

// evict drops the oldest entry. Caller holds the lock.
func (c *inMemoryCache) evict() {
	if c.head == nil {
		return
	}
	victim := c.head
	c.head = victim.next
	if c.head == nil {
		c.tail = nil
	}
	delete(c.entries, victim.key)
	c.size.Add(-1)
}
