// Package cache stores computed placements and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// shared deployments of the HTTP API, and [NullCache] when caching is off.
// Keys come from a [Keyer], so every backend sees the same namespace.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// PlacementTTL bounds how long a computed result is reused. Results are
	// deterministic, so this only limits disk and memory growth.
	PlacementTTL = 7 * 24 * time.Hour

	// ArtifactTTL bounds how long a rendered artifact is reused.
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
