package storage

import "sync"

// MemoryBacking is the fast volatile backing store.
// Implements Backing; never errors.
type MemoryBacking struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryBacking creates an empty in-memory backing.
func NewMemoryBacking() *MemoryBacking {
	return &MemoryBacking{entries: make(map[string]string)}
}

// Get retrieves a value by key.
func (m *MemoryBacking) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.entries[key]
	return value, found, nil
}

// Set stores a value under key.
func (m *MemoryBacking) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// Delete removes a key.
func (m *MemoryBacking) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

var _ Backing = (*MemoryBacking)(nil)
