package voter

import (
	"context"
	"sort"
	"sync"
	"time"

	"nirvachan/pkg/platform/sentinel"
)

// InMemory mirrors the postgres store's constraint behavior so service tests
// exercise the same conflict paths without a database.
type InMemory struct {
	mu     sync.Mutex
	nextID int64
	voters map[int64]Voter
}

func NewInMemory() *InMemory {
	return &InMemory{voters: make(map[int64]Voter)}
}

func (s *InMemory) Create(_ context.Context, v *Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.voters {
		if existing.NationalID == v.NationalID ||
			existing.CivicCardID == v.CivicCardID ||
			existing.UserID == v.UserID {
			return sentinel.ErrConflict
		}
	}
	s.nextID++
	v.ID = s.nextID
	v.RegisteredAt = time.Now()
	s.voters[v.ID] = *v
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.voters[id]; ok {
		return v, nil
	}
	return Voter{}, sentinel.ErrNotFound
}

func (s *InMemory) FindByUserID(_ context.Context, userID int64) (Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.UserID == userID {
			return v, nil
		}
	}
	return Voter{}, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Voter, 0, len(s.voters))
	for _, v := range s.voters {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
