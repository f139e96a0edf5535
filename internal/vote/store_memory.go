package vote

import (
	"context"
	"sort"
	"sync"
	"time"

	"nirvachan/pkg/platform/sentinel"
)

// InMemoryStore enforces the same (voter, election) uniqueness the database
// constraint does, under one mutex, so concurrent duplicate casts lose here
// exactly as they would in postgres.
type InMemoryStore struct {
	mu     sync.Mutex
	nextID int64
	votes  map[int64]Vote
	pairs  map[[2]int64]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID: 1,
		votes:  make(map[int64]Vote),
		pairs:  make(map[[2]int64]int64),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, v Vote) (Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{v.VoterID, v.ElectionID}
	if _, exists := s.pairs[key]; exists {
		return Vote{}, sentinel.ErrConflict
	}
	v.ID = s.nextID
	s.nextID++
	if v.CastAt.IsZero() {
		v.CastAt = time.Now()
	}
	s.votes[v.ID] = v
	s.pairs[key] = v.ID
	return v, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.votes[id]
	if !ok {
		return Vote{}, sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryStore) FindByVoterAndElection(_ context.Context, voterID, electionID int64) (Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.pairs[[2]int64{voterID, electionID}]
	if !ok {
		return Vote{}, sentinel.ErrNotFound
	}
	return s.votes[id], nil
}

func (s *InMemoryStore) ListByElection(_ context.Context, electionID int64) ([]Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Vote
	for _, v := range s.votes {
		if v.ElectionID == electionID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.votes[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.votes, id)
	delete(s.pairs, [2]int64{v.VoterID, v.ElectionID})
	return nil
}
