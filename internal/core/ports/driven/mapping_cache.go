package driven

import (
	"context"
	"time"
)

// MappingCache stores resolved tag mappings keyed by a digest of the raw
// candidate set, so a given tag set is resolved against the collaborator at
// most once. A cache is optional: the resolver works without one.
type MappingCache interface {
	// Get returns the cached mapping for key.
	// Returns domain.ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (map[string]string, error)

	// Set stores a mapping under key with the given TTL.
	// A non-positive TTL stores the mapping without expiry.
	Set(ctx context.Context, key string, mapping map[string]string, ttl time.Duration) error

	// Close releases resources held by the cache
	Close() error
}
