package memory

import (
	"context"
	"sync"
)

// Store keeps collections in process memory. Useful for tests and ephemeral
// runs.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, collection string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.data[collection]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(blob))
	copy(copied, blob)
	return copied, nil
}

func (s *Store) Save(_ context.Context, collection string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.data[collection] = copied
	return nil
}

func (s *Store) Delete(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, collection)
	return nil
}
