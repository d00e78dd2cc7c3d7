package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps figures in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	figures map[string]*Figure
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{figures: make(map[string]*Figure)}
}

func (s *MemoryStore) Save(_ context.Context, f *Figure) error {
	if err := prepare(f); err != nil {
		return err
	}
	cp := *f
	s.mu.Lock()
	s.figures[f.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Figure, error) {
	s.mu.RLock()
	f, ok := s.figures[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	cp := *f
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Figure, error) {
	s.mu.RLock()
	out := make([]Figure, 0, len(s.figures))
	for _, f := range s.figures {
		out = append(out, f.Summary())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Figure) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.figures[id]; !ok {
		return notFound(id)
	}
	delete(s.figures, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
