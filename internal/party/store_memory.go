package party

import (
	"context"
	"sort"
	"sync"

	"nirvachan/pkg/platform/sentinel"
)

// InMemory enforces name uniqueness under a single lock, standing in for the
// parties_name_key constraint in tests.
type InMemory struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]int64
}

func NewInMemory() *InMemory {
	return &InMemory{byName: make(map[string]int64)}
}

func (s *InMemory) Insert(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[name]; ok {
		return 0, sentinel.ErrConflict
	}
	s.nextID++
	s.byName[name] = s.nextID
	return s.nextID, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byName[name]; ok {
		return Party{ID: id, Name: name}, nil
	}
	return Party{}, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Party, 0, len(s.byName))
	for name, id := range s.byName {
		out = append(out, Party{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
