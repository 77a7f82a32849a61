package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MappingCache = (*MappingCache)(nil)

// Key prefix for cached tag mappings
const mappingPrefix = "tagmap:"

// MappingCache implements driven.MappingCache using Redis.
// Entries expire via Redis TTL; a miss surfaces as domain.ErrNotFound.
type MappingCache struct {
	client *redis.Client
}

// NewMappingCache creates a new Redis-backed MappingCache
func NewMappingCache(client *redis.Client) *MappingCache {
	return &MappingCache{client: client}
}

// Get retrieves a cached tag mapping by key
func (c *MappingCache) Get(ctx context.Context, key string) (map[string]string, error) {
	data, err := c.client.Get(ctx, mappingPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
	}

	return mapping, nil
}

// Set stores a tag mapping with the given TTL. A zero TTL stores the
// entry without expiration.
func (c *MappingCache) Set(ctx context.Context, key string, mapping map[string]string, ttl time.Duration) error {
	data, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := c.client.Set(ctx, mappingPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set mapping: %w", err)
	}

	return nil
}

// Close closes the underlying Redis client
func (c *MappingCache) Close() error {
	return c.client.Close()
}
