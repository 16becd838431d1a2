// Package memory provides an in-memory ledger.Store (for testing/dev).
package memory

import (
	"context"
	"sync"
)

// Store keeps the snapshot in a mutex-guarded map. Load and Save copy, so
// callers never alias internal state.
type Store struct {
	mu sync.RWMutex
	kv map[string]string
}

func New() *Store {
	return &Store{kv: make(map[string]string)}
}

// Seed pre-populates keys, for tests that start from an existing snapshot.
func Seed(kv map[string]string) *Store {
	s := New()
	for k, v := range kv {
		s.kv[k] = v
	}
	return s
}

func (s *Store) Load(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.kv))
	for k, v := range s.kv {
		out[k] = v
	}
	return out, nil
}

func (s *Store) Save(_ context.Context, kv map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv = make(map[string]string, len(kv))
	for k, v := range kv {
		s.kv[k] = v
	}
	return nil
}
