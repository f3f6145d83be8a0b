// Package ristretto implements the cache port with dgraph-io/ristretto as
// the in-process L1 tier. Cost accounting is by value size so the response
// cache stays within a fixed memory budget regardless of entry count.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// averageEntryBytes is a sizing estimate for upstream response bodies, used
// to derive the admission counter count from the byte budget.
const averageEntryBytes = 4096

// Cache wraps a ristretto cache as the L1 tier.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a ristretto-backed cache holding at most maxCostBytes of
// cached values.
func New(maxCostBytes int64) (*Cache, error) {
	counters := maxCostBytes / averageEntryBytes * 10
	if counters < 1024 {
		counters = 1024
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value with the given TTL, costed at its byte length.
// Admission is asynchronous; a freshly set key may briefly read as a miss.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Wait blocks until pending admissions are applied. Tests use it to make
// Set visible before asserting on Get.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.c.Close()
}
