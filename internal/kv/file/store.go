package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists collections to a single JSON file on disk, one entry per
// collection. Saves go through a temp file and rename so a crash mid-write
// never leaves a truncated store behind.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore constructs a file-backed store at the given path. The parent
// directory is created if missing.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(_ context.Context, collection string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.read()
	if err != nil {
		return nil, err
	}
	blob, ok := collections[collection]
	if !ok {
		return nil, nil
	}
	return blob, nil
}

func (s *Store) Save(_ context.Context, collection string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.read()
	if err != nil {
		return err
	}
	collections[collection] = json.RawMessage(data)
	return s.write(collections)
}

func (s *Store) Delete(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.read()
	if err != nil {
		return err
	}
	delete(collections, collection)
	return s.write(collections)
}

// read loads the whole store file. A missing or unparseable file yields an
// empty store: corrupt persisted data fails soft, never hard.
func (s *Store) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	collections := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &collections); err != nil {
		return map[string]json.RawMessage{}, nil
	}
	return collections, nil
}

func (s *Store) write(collections map[string]json.RawMessage) error {
	raw, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
