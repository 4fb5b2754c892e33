package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache checks a fast front cache before a slower back cache.
// Back-cache hits are promoted to the front.
type LayeredCache struct {
	front Cache
	back  Cache
	// promoteTTL bounds how long promoted entries live in front.
	promoteTTL time.Duration
}

// Layered stacks front over back.
func Layered(front, back Cache, promoteTTL time.Duration) *LayeredCache {
	return &LayeredCache{front: front, back: back, promoteTTL: promoteTTL}
}

// Get retrieves a value, checking front first.
func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := c.front.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, ok, err := c.back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.front.Set(ctx, key, data, c.promoteTTL)
	return data, true, nil
}

// Set stores a value in both layers.
func (c *LayeredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	frontTTL := ttl
	if c.promoteTTL > 0 && (frontTTL == 0 || frontTTL > c.promoteTTL) {
		frontTTL = c.promoteTTL
	}
	if err := c.front.Set(ctx, key, data, frontTTL); err != nil {
		return err
	}
	return c.back.Set(ctx, key, data, ttl)
}

// Delete removes a value from both layers.
func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.front.Delete(ctx, key), c.back.Delete(ctx, key))
}

// Close closes both layers.
func (c *LayeredCache) Close() error {
	return errors.Join(c.front.Close(), c.back.Close())
}

var _ Cache = (*LayeredCache)(nil)
