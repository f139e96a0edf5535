package candidate

import (
	"context"
	"sort"
	"sync"

	"nirvachan/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	candidates map[int64]Candidate
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, candidates: make(map[int64]Candidate)}
}

func (s *InMemoryStore) Create(_ context.Context, c Candidate) (Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	s.candidates[c.ID] = c
	return c, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return Candidate{}, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *InMemoryStore) ListByElection(_ context.Context, electionID int64) ([]Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Candidate
	for _, c := range s.candidates {
		if c.ElectionID == electionID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, c Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.candidates[c.ID] = c
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.candidates, id)
	return nil
}
