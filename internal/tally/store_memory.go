package tally

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore aggregates over seeded candidates and a vote counter.
// Test and local-development double for the SQL aggregation.
type InMemoryStore struct {
	mu         sync.Mutex
	candidates map[int64][]Row
	counts     map[int64]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		candidates: make(map[int64][]Row),
		counts:     make(map[int64]int64),
	}
}

// AddCandidate seeds a zero-vote candidate on an election's ballot.
func (s *InMemoryStore) AddCandidate(electionID, candidateID int64, name, partyName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[electionID] = append(s.candidates[electionID], Row{
		CandidateID: candidateID,
		Name:        name,
		PartyName:   partyName,
	})
}

// AddVote counts one ballot for a candidate.
func (s *InMemoryStore) AddVote(candidateID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[candidateID]++
}

func (s *InMemoryStore) Leaderboard(_ context.Context, electionID int64) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, 0, len(s.candidates[electionID]))
	for _, c := range s.candidates[electionID] {
		c.Votes = s.counts[c.CandidateID]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].CandidateID < out[j].CandidateID
	})
	return out, nil
}
