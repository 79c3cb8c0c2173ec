package client

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryCache holds fetched server state keyed by (resource, filter/id).
// One instance is created at startup and shared by reference; concurrent
// identical fetches collapse into a single request.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
	group   singleflight.Group
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]interface{}),
	}
}

// Do returns the cached value for key, or runs fetch and caches its result.
// Concurrent callers with the same key share one fetch.
func (c *QueryCache) Do(key string, fetch func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fetched, err := fetch()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Get returns the cached value for key without fetching.
func (c *QueryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Put stores a value directly, replacing any cached entry.
func (c *QueryCache) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate drops the given keys so the next read refetches.
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidatePrefix drops every key under the given resource prefix.
func (c *QueryCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
