// Package entity provides the shared mutable attribute store a run resolves
// into. All mutation goes through one atomic read-modify-write primitive so
// concurrent observers never see a partially merged update.
package entity

import "sync"

// Store is the entity under construction: attribute key → value.
//
// Snapshot returns the current state; AtomicMerge applies a pure
// transformation old → new, serialized against concurrent callers so no
// update is lost. The transformation receives a private copy and must not
// retain it.
type Store interface {
	Snapshot() map[string]any
	AtomicMerge(fn func(map[string]any) map[string]any)
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewStore returns an in-memory Store seeded with a copy of seed. Each run
// must own a distinct store; nothing is shared across runs.
func NewStore(seed map[string]any) Store {
	data := make(map[string]any, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &memoryStore{data: data}
}

func (s *memoryStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTop(s.data)
}

func (s *memoryStore) AtomicMerge(fn func(map[string]any) map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next := fn(cloneTop(s.data)); next != nil {
		s.data = next
	}
}

// cloneTop copies the top level only; values are treated as immutable once
// merged.
func cloneTop(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
