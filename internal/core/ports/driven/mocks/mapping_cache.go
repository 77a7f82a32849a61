package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
)

// MockMappingCache is an in-memory mock implementation of MappingCache
type MockMappingCache struct {
	mu      sync.Mutex
	entries map[string]map[string]string

	// Gets and Sets count cache operations for assertions
	Gets int
	Sets int

	// GetErr and SetErr, when set, force the corresponding call to fail
	GetErr error
	SetErr error
}

// NewMockMappingCache creates an empty MockMappingCache
func NewMockMappingCache() *MockMappingCache {
	return &MockMappingCache{
		entries: make(map[string]map[string]string),
	}
}

func (m *MockMappingCache) Get(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets++
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	mapping, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := make(map[string]string, len(mapping))
	for k, v := range mapping {
		out[k] = v
	}
	return out, nil
}

func (m *MockMappingCache) Set(ctx context.Context, key string, mapping map[string]string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}

	stored := make(map[string]string, len(mapping))
	for k, v := range mapping {
		stored[k] = v
	}
	m.entries[key] = stored
	return nil
}

func (m *MockMappingCache) Close() error {
	return nil
}

// Put seeds the cache directly, bypassing the counters.
func (m *MockMappingCache) Put(key string, mapping map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = mapping
}
