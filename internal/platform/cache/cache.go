// Package cache provides an in-memory TTL cache used by the single-upstream
// pass-through endpoints to avoid hammering the market-data providers.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache defines the interface for a generic cache.
type Cache interface {
	// Get retrieves a value; returns nil, false on miss or expiry.
	Get(key string) (interface{}, bool)

	// Set stores a value with a TTL. A zero ttl never expires.
	Set(key string, value interface{}, ttl time.Duration)

	// Delete removes a key.
	Delete(key string)

	// Size returns the current number of live entries.
	Size() int
}

type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
	element   *list.Element
}

// MemoryCache implements an in-memory LRU cache with TTL support.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*entry
	lru      *list.List
}

// NewMemoryCache crea una cache con la capacidad dada; al llenarse
// expulsa la entrada menos usada recientemente.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 128
	}
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*entry),
		lru:      list.New(),
	}
}

// Get retrieves a value from the cache, marking it as recently used.
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.remove(e)
		return nil, false
	}
	c.lru.MoveToFront(e.element)
	return e.value, true
}

// Set stores a value, evicting the LRU entry if at capacity.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.lru.MoveToFront(e.element)
		return
	}

	if len(c.items) >= c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest.Value.(*entry))
		}
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	e.element = c.lru.PushFront(e)
	c.items[key] = e
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.remove(e)
	}
}

// Size returns the number of entries currently stored.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// remove elimina la entrada. Caller holds mu.
func (c *MemoryCache) remove(e *entry) {
	c.lru.Remove(e.element)
	delete(c.items, e.key)
}
