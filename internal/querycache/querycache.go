// Package querycache is the in-process LRU+TTL cache fronting the query
// engine (spec 4.10: 480-entry capacity, 120s TTL). Grounded on the
// teacher's internal/redis cache role but re-expressed as a pure in-memory
// structure for the hot first tier; internal/redisqcache adapts the
// teacher's rueidis client for the shared second tier.
package querycache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCapacity and DefaultTTL mirror spec 4.10's pinned numbers.
const (
	DefaultCapacity = 480
	DefaultTTL      = 120 * time.Second
)

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Cache is a fixed-capacity LRU cache with per-entry TTL.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

// New returns a cache with the given capacity and TTL. A non-positive
// capacity or ttl falls back to the spec defaults.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		c.removeElement(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set inserts or refreshes key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	el := c.order.PushFront(e)
	c.items[key] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Invalidate drops every cached entry; called after an indexing run so
// stale hit lists never outlive the content they describe.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Len returns the current number of live (possibly expired-but-not-yet-
// reaped) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.order.Remove(el)
}
