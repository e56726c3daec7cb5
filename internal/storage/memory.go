// Package storage provides key-value snapshot stores for history and high
// scores.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// Compile-time interface check.
var _ domain.KVStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory key-value store. Safe for concurrent access.
// Values are copied in and out so callers cannot mutate stored bytes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		log:     log,
	}
}

// Put stores a value. Overwrites if the key already exists.
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("put %s (%d bytes)", key, len(value))
	s.entries[key] = append([]byte(nil), value...)
	return nil
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		s.log.Debug("key not found: %s", key)
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, key)
	s.log.Debug("deleted %s", key)
	return nil
}
