package counter

import (
	"context"
	"sync"
)

// MemoryStore keeps the counter in process memory. Used in tests and as
// a fallback when no Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	value   int64
	present bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.present, nil
}

func (s *MemoryStore) Set(_ context.Context, value int64) error {
	s.mu.Lock()
	s.value = value
	s.present = true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Add(_ context.Context, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value += delta
	s.present = true
	return s.value, nil
}

// Clear drops the key, forcing the next Get through the lazy-populate
// path. Test helper.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.value = 0
	s.present = false
	s.mu.Unlock()
}
