// Package cache provides durable key-value stores for pricing results.
//
// Stores never expire entries on their own; callers compare the entry
// timestamp against their TTL and overwrite stale entries.
package cache

import (
	"context"
	"sync"

	"github.com/younsl/archcost/internal/models"
)

// Store persists pricing cache entries
type Store interface {
	Get(ctx context.Context, key string) (*models.PricingCacheEntry, bool, error)
	Put(ctx context.Context, entry models.PricingCacheEntry) error
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.PricingCacheEntry
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.PricingCacheEntry)}
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, key string) (*models.PricingCacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry.Data = append([]byte(nil), entry.Data...)
	return &entry, true, nil
}

// Put implements Store
func (s *MemoryStore) Put(_ context.Context, entry models.PricingCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Data = append([]byte(nil), entry.Data...)
	s.entries[entry.Key] = entry
	return nil
}

// Len returns the number of stored entries
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
