package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Reason records why caching is off ("--no-cache",
// "backend none", an unreachable Redis) so commands can say so.
type NullCache struct {
	Reason string
}

// NewNullCache returns a NullCache with no recorded reason.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled returns a NullCache that records why caching is off.
func Disabled(reason string) Cache {
	return &NullCache{Reason: reason}
}

// Get always misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Clear removes nothing and reports zero entries.
func (c *NullCache) Clear(context.Context) (int, error) { return 0, nil }

// Close is a no-op.
func (c *NullCache) Close() error { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
