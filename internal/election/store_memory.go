package election

import (
	"context"
	"sort"
	"sync"

	"nirvachan/pkg/platform/sentinel"
)

// InMemoryStore backs tests and local development.
type InMemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	elections  map[int64]Election
	candidates map[int64][]CandidateSummary
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:     1,
		elections:  make(map[int64]Election),
		candidates: make(map[int64][]CandidateSummary),
	}
}

func (s *InMemoryStore) Create(_ context.Context, e Election) (Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.elections[e.ID] = e
	return e, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return Election{}, sentinel.ErrNotFound
	}
	return e, nil
}

func (s *InMemoryStore) LatestByType(_ context.Context, electionType string) (Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest Election
	found := false
	for _, e := range s.elections {
		if e.Type != electionType {
			continue
		}
		if !found || e.Date.After(latest.Date) || (e.Date.Equal(latest.Date) && e.ID > latest.ID) {
			latest = e
			found = true
		}
	}
	if !found {
		return Election{}, sentinel.ErrNotFound
	}
	return latest, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Election, 0, len(s.elections))
	for _, e := range s.elections {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListWithCandidates(ctx context.Context) ([]WithCandidates, error) {
	list, _ := s.List(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WithCandidates, 0, len(list))
	for _, e := range list {
		wc := WithCandidates{Election: e}
		wc.Candidates = append(wc.Candidates, s.candidates[e.ID]...)
		out = append(out, wc)
	}
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, e Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.elections[e.ID] = e
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.elections, id)
	delete(s.candidates, id)
	return nil
}

// AddCandidate attaches a candidate row to an election listing. Test helper.
func (s *InMemoryStore) AddCandidate(electionID int64, c CandidateSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[electionID] = append(s.candidates[electionID], c)
}
