package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer.
// Implementations must treat a miss as (false, nil), never as an error.
type Cache interface {
	// Get loads the value at key into dest.
	// found = false means cache miss and dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
