// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds active practice games and assistant sessions for the lifetime of the
// process; nothing here survives a restart.
//
// Characteristics:
//   - Values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - ErrNotFound is returned for missing IDs.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live objects (games, sessions).
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store[T any] interface {
	// Save persists or updates v under id.
	Save(ctx context.Context, id string, v T) error

	// Get retrieves a value by ID.
	Get(ctx context.Context, id string) (T, error)

	// Delete removes a value by ID.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory[T any] struct {
	mu    sync.RWMutex // guards items
	items map[string]T
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore[T any]() Store[T] {
	return &memory[T]{items: make(map[string]T)}
}

func (m *memory[T]) Save(ctx context.Context, id string, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = v
	return nil
}

func (m *memory[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[id]; ok {
		return v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memory[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}
