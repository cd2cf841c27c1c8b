package registry

import (
	"context"
	"sync"
)

// Memory implements Registry backed by process memory. Intended for tests
// and for running without a configured database.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory returns an in-memory registry.
func NewMemory() *Memory { return &Memory{entries: make(map[string]Entry)} }

// Driver returns the backend identifier.
func (m *Memory) Driver() string { return "memory" }

// Record inserts or replaces the entry.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

// Get returns the entry for id.
func (m *Memory) Get(_ context.Context, id string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok, nil
}

// List returns all entries, most recently saved first.
func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sortRecentFirst(out)
	return out, nil
}

// Remove deletes the entry, reporting whether it existed.
func (m *Memory) Remove(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[id]
	delete(m.entries, id)
	return ok, nil
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error { return nil }
