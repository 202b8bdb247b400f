package cache

import (
	"sync"
	"time"

	"github.com/oriys/quasar/internal/engine"
)

// DefaultStatusTTL bounds how stale a reported SSL status may be.
const DefaultStatusTTL = 30 * time.Second

// InMemoryStatusCache is the default StatusCache, a map with periodic
// eviction. One instance serves the whole process.
type InMemoryStatusCache struct {
	mu      sync.RWMutex
	entries map[string]*statusEntry
	ttl     time.Duration
	closed  bool
	stop    chan struct{}
}

type statusEntry struct {
	status    engine.SSLStatus
	expiresAt time.Time
}

func (e *statusEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryStatusCache creates a status cache. A non-positive ttl falls
// back to DefaultStatusTTL.
func NewInMemoryStatusCache(ttl time.Duration) *InMemoryStatusCache {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	c := &InMemoryStatusCache{
		entries: make(map[string]*statusEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.evictLoop()
	return c
}

func (c *InMemoryStatusCache) Get(key string) (*engine.SSLStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || entry.expired() {
		return nil, ErrNotFound
	}
	// Copy so callers cannot mutate the cached value.
	st := entry.status
	return &st, nil
}

func (c *InMemoryStatusCache) Set(key string, status *engine.SSLStatus) error {
	if status == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.entries[key] = &statusEntry{
		status:    *status,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

func (c *InMemoryStatusCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *InMemoryStatusCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.entries = nil
	close(c.stop)
	return nil
}

func (c *InMemoryStatusCache) evictLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			for key, entry := range c.entries {
				if entry.expired() {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
