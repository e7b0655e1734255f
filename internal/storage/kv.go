// Package storage persists brew methods. The collection lives under a
// single key of a small key-value backend (memory, files, or SQLite).
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// KV is a named-entry store. Get reports ok=false for a missing key.
// Update is the only read-modify-write that is atomic across handles.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// UpdateFunc receives the current value of a key (ok is false when it is
// missing) and returns the value to store. An error leaves the entry as
// it was and is returned from Update unchanged.
type UpdateFunc func(old []byte, ok bool) ([]byte, error)

// Compile-time interface checks.
var (
	_ KV = (*MemoryKV)(nil)
	_ KV = (*FileKV)(nil)
	_ KV = (*SQLiteKV)(nil)
)

// MemoryKV keeps entries in a map. Safe for concurrent access.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string][]byte
	log     *logger.Logger
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV(log *logger.Logger) *MemoryKV {
	return &MemoryKV{
		entries: make(map[string][]byte),
		log:     log,
	}
}

// Get returns a copy of the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key, overwriting any previous value.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("memory kv: set %s (%d bytes)", key, len(value))
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Update runs fn with the map locked.
func (m *MemoryKV) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.entries[key]
	next, err := fn(append([]byte(nil), old...), ok)
	if err != nil {
		return err
	}
	m.log.Debug("memory kv: update %s (%d bytes)", key, len(next))
	m.entries[key] = append([]byte(nil), next...)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() error { return nil }
