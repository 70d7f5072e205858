package store

import (
	"context"
	"slices"
	"sync"

	"robot-maze-server/maze"
)

// MemoryStore keeps layouts in a map. Layouts are copied in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]maze.Layout
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]maze.Layout)}
}

func (s *MemoryStore) Save(_ context.Context, l *maze.Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[l.Name] = copyLayout(l)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, name string) (*maze.Layout, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyLayout(&l)
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.layouts))
	for name := range s.layouts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[name]; !ok {
		return ErrNotFound
	}
	delete(s.layouts, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func copyLayout(l *maze.Layout) maze.Layout {
	c := *l
	c.Rows = slices.Clone(l.Rows)
	return c
}
