package cache

import (
	"context"
	"time"
)

// Cache is the key-value port the report subsystem writes results to.
// Implementations: Redis (shared between processes) and in-process memory.
type Cache interface {
	// Get loads the value stored under key into dest.
	// Returns (false, nil) on a miss or an expired entry; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) under key for ttl. Last writer wins.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}
