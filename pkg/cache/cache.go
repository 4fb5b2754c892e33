// Package cache stores fetched map tiles between runs.
//
// All backends implement [Cache]. A miss is reported as (nil, false, nil);
// errors are reserved for storage failures, and callers treat them as misses.
//
// Backends:
//   - [FileCache]: JSON entries under a directory, the default for the CLI
//   - [MemoryCache]: in-process, expiring entries (go-cache)
//   - [RedisCache]: shared cache across machines
//   - [NullCache]: disables caching
//
// [Layered] stacks a fast cache in front of a slower one.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTileTTL is how long a fetched tile stays fresh. Tile servers ask
// clients to keep tiles for at least a week.
const DefaultTileTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TileKey builds the cache key for one XYZ tile of a tile source.
// The URL template is hashed so different sources never share entries.
func TileKey(urlTemplate string, z, x, y int) string {
	return hashKey("tile", urlTemplate, fmt.Sprintf("%d/%d/%d", z, x, y))
}
