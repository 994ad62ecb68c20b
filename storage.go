package authcore

import (
	"context"
	"sync"
)

// MemoryStorage is a map-backed Storage, used as the default backend and in
// tests. Safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty in-memory Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		slots: map[string]string{},
	}
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.slots[key]
	if !ok {
		return "", ErrKeyNotFound.WithMetadata(map[string]any{
			"key": key,
		})
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, key)
	return nil
}
