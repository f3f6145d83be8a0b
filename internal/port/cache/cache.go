// Package cache defines the port interface for the gateway's key-value
// caching tiers.
package cache

import (
	"context"
	"time"
)

// Cache is the port implemented by every caching tier: the in-process L1,
// the shared NATS KV L2, and the tiered composition of the two. The response
// cache and the idempotency replay store both run on this interface.
//
// Get reports a miss as (nil, false, nil); an error return means the tier
// itself failed, not that the key was absent. Implementations may treat ttl
// as advisory when expiry is managed elsewhere.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
