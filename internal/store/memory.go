package store

import (
	"slices"
	"sync"

	"nickandperla.net/formula/internal/provider"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu    sync.RWMutex
	items []provider.Suggestion
	saves int
}

// NewMemory creates a new in-memory store.
func NewMemory(items ...provider.Suggestion) *Memory {
	return &Memory{items: slices.Clone(items)}
}

// Load returns a copy of the cached list.
func (m *Memory) Load() ([]provider.Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items), nil
}

// Save replaces the cached list.
func (m *Memory) Save(items []provider.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.Clone(items)
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
