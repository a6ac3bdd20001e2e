package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/storage"
)

// Storage is an in-process storage.Storage. Values are copied on the way in
// and out so callers never share backing arrays with the store.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory store.
func New() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Has reports whether key is present.
func (s *Storage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok
}
