// Package tagcache implements the tagged response cache for proxied GETs.
//
// Entries are keyed by (method, path, query) and grouped by tags so that a
// mutation can drop every cached response for a resource class, or for one
// clinic, in a single call. Storage is delegated to the byte-cache port, so
// the same logic runs over ristretto alone or a tiered L1+L2 setup.
package tagcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/careport/clinicgate/internal/port/cache"
)

// Entry is one cached upstream response.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Cache stores proxied responses with TTL and tag-based invalidation.
type Cache struct {
	store cache.Cache

	mu   sync.Mutex
	tags map[string]map[string]struct{} // tag -> keys
}

// New creates a tagged cache over the given byte-cache backend.
func New(store cache.Cache) *Cache {
	return &Cache{
		store: store,
		tags:  make(map[string]map[string]struct{}),
	}
}

// Key builds the deterministic cache key for one request.
// Two requests with identical method, path and raw query share an entry.
func Key(method, path, rawQuery string) string {
	if rawQuery == "" {
		return method + " " + path
	}
	return method + " " + path + "?" + rawQuery
}

// Get returns the cached entry for key, if present and fresh.
func (c *Cache) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, found, err := c.store.Get(ctx, key)
	if err != nil || !found {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		_ = c.store.Delete(ctx, key)
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Set stores an entry under key for ttl and indexes it under every tag.
func (c *Cache) Set(ctx context.Context, key string, e Entry, ttl time.Duration, tags []string) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}

	c.mu.Lock()
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	c.mu.Unlock()
	return nil
}

// Invalidate drops every entry indexed under any of the given tags.
// Deleting an already-expired key is a no-op, so the index may lag TTL
// expiry without affecting correctness.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) error {
	c.mu.Lock()
	keys := make(map[string]struct{})
	for _, tag := range tags {
		for k := range c.tags[tag] {
			keys[k] = struct{}{}
		}
		delete(c.tags, tag)
	}
	// A key may still be indexed under other tags; leave those references,
	// Delete below makes them stale and Get will simply miss.
	c.mu.Unlock()

	var firstErr error
	for k := range keys {
		if err := c.store.Delete(ctx, k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
