package credential

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore - process-local credential slot. Used when Redis is not
// configured and as the fake in workflow tests.
type MemoryStore struct {
	mu  sync.RWMutex
	key string
}

// NewMemoryStore - create a slot, optionally seeded from the environment
func NewMemoryStore(seed string) *MemoryStore {
	return &MemoryStore{key: strings.TrimSpace(seed)}
}

func (s *MemoryStore) Read(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == "" {
		return "", ErrNotFound
	}
	return s.key, nil
}

func (s *MemoryStore) Write(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = strings.TrimSpace(key)
	return nil
}
