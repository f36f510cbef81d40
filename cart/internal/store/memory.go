package store

import (
	"context"
	"sync"
)

// MemoryGuestStore keeps guest carts in process memory. Used in tests and as
// a fallback when no cache is configured.
type MemoryGuestStore struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryGuestStore() *MemoryGuestStore {
	return &MemoryGuestStore{carts: map[string][]Line{}}
}

func (s *MemoryGuestStore) Load(_ context.Context, guestId string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines, ok := s.carts[guestId]
	if !ok {
		return []Line{}, nil
	}
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return copied, nil
}

func (s *MemoryGuestStore) Save(_ context.Context, guestId string, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Line, len(lines))
	copy(copied, lines)
	s.carts[guestId] = copied
	return nil
}

func (s *MemoryGuestStore) Clear(_ context.Context, guestId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, guestId)
	return nil
}
