// Package memory implements an in-process key-value store for favorites.
// Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/gadget-catalog/internal/domain/favorite"
)

var _ favorite.Store = (*Store)(nil)

// Store is a concurrency-safe map.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
