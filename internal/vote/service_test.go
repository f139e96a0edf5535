package vote

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nirvachan/internal/audit"
	"nirvachan/internal/candidate"
	"nirvachan/internal/election"
	"nirvachan/internal/party"
	dErrors "nirvachan/pkg/domain-errors"
)

// Justification for unit tests: the casting preconditions and the duplicate
// race are the heart of the ledger. The memory store enforces the same pair
// uniqueness as the database constraint, so the concurrency behavior under
// test matches production.

type VoteServiceSuite struct {
	suite.Suite
	store      *InMemoryStore
	elections  *election.Service
	candidates *candidate.Service
	trail      *audit.InMemoryStore
	service    *Service

	openElection   election.Election
	closedElection election.Election
	candidateID    int64
	otherBallotID  int64
}

func TestVoteServiceSuite(t *testing.T) {
	suite.Run(t, new(VoteServiceSuite))
}

func (s *VoteServiceSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	s.store = NewInMemoryStore()
	s.trail = audit.NewInMemoryStore()
	auditor := audit.NewPublisher(s.trail, logger)

	s.elections = election.NewService(election.NewInMemoryStore(), auditor, "India", logger)
	s.candidates = candidate.NewService(
		candidate.NewInMemoryStore(),
		party.NewResolver(party.NewInMemory(), logger),
		s.elections,
		auditor,
		logger,
	)
	s.service = NewService(s.store, s.elections, s.candidates, auditor, nil, logger)

	var err error
	s.openElection, err = s.elections.Create(ctx, election.Election{
		Title: "General 2026", Type: "General",
		Date: time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC),
		Region: "India", Status: election.StatusOngoing,
	})
	s.Require().NoError(err)

	s.closedElection, err = s.elections.Create(ctx, election.Election{
		Title: "General 2021", Type: "General",
		Date: time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC),
		Region: "India", Status: election.StatusCompleted,
	})
	s.Require().NoError(err)

	c, err := s.candidates.Create(ctx, candidate.CreateInput{
		Name: "Asha Nair", PartyName: "Lok Shakti", ElectionID: s.openElection.ID,
	})
	s.Require().NoError(err)
	s.candidateID = c.ID

	other, err := s.candidates.Create(ctx, candidate.CreateInput{
		Name: "Old Guard", ElectionID: s.closedElection.ID,
	})
	s.Require().NoError(err)
	s.otherBallotID = other.ID
}

func (s *VoteServiceSuite) TestCastVote() {
	ctx := context.Background()

	s.Run("happy path records the ballot", func() {
		v, err := s.service.CastVote(ctx, 1, s.candidateID, s.openElection.ID)
		s.NoError(err)
		s.NotZero(v.ID)
		s.Equal(int64(1), v.VoterID)
	})

	s.Run("second cast by the same voter is rejected", func() {
		_, err := s.service.CastVote(ctx, 1, s.candidateID, s.openElection.ID)
		s.Equal(dErrors.CodeAlreadyVoted, dErrors.CodeOf(err))
	})

	s.Run("closed election is rejected before the ballot is inspected", func() {
		_, err := s.service.CastVote(ctx, 2, s.otherBallotID, s.closedElection.ID)
		s.Equal(dErrors.CodeElectionNotOpen, dErrors.CodeOf(err))
	})

	s.Run("candidate from another election is rejected", func() {
		_, err := s.service.CastVote(ctx, 2, s.otherBallotID, s.openElection.ID)
		s.Equal(dErrors.CodeCandidateMismatch, dErrors.CodeOf(err))
	})

	s.Run("unknown candidate is not found", func() {
		_, err := s.service.CastVote(ctx, 2, 999, s.openElection.ID)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("unknown election is not found", func() {
		_, err := s.service.CastVote(ctx, 2, s.candidateID, 999)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("zero ids are rejected", func() {
		_, err := s.service.CastVote(ctx, 0, s.candidateID, s.openElection.ID)
		s.Equal(dErrors.CodeMissingField, dErrors.CodeOf(err))
	})
}

// TestConcurrentDuplicateCast races one voter's duplicate submissions.
// Exactly one may land; the rest lose on the storage conflict.
func (s *VoteServiceSuite) TestConcurrentDuplicateCast() {
	ctx := context.Background()
	const attempts = 16

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = s.service.CastVote(ctx, 42, s.candidateID, s.openElection.ID)
		}(i)
	}
	wg.Wait()

	var wins, duplicates int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case dErrors.CodeOf(err) == dErrors.CodeAlreadyVoted:
			duplicates++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(attempts-1, duplicates)

	ledger, err := s.service.ListByElection(ctx, s.openElection.ID)
	s.Require().NoError(err)
	s.Len(ledger, 1)
}

func (s *VoteServiceSuite) TestHasVoted() {
	ctx := context.Background()

	voted, err := s.service.HasVoted(ctx, 7, s.openElection.ID)
	s.NoError(err)
	s.False(voted)

	_, err = s.service.CastVote(ctx, 7, s.candidateID, s.openElection.ID)
	s.Require().NoError(err)

	voted, err = s.service.HasVoted(ctx, 7, s.openElection.ID)
	s.NoError(err)
	s.True(voted)
}

func (s *VoteServiceSuite) TestCastEmitsAudit() {
	ctx := context.Background()
	_, err := s.service.CastVote(ctx, 9, s.candidateID, s.openElection.ID)
	s.Require().NoError(err)

	var found bool
	for _, e := range s.trail.All() {
		if e.Action == audit.ActionVoteCast {
			found = true
		}
	}
	s.True(found)
}

func (s *VoteServiceSuite) TestAdminLedgerReview() {
	ctx := context.Background()
	v, err := s.service.CastVote(ctx, 11, s.candidateID, s.openElection.ID)
	s.Require().NoError(err)

	got, err := s.service.Get(ctx, v.ID)
	s.NoError(err)
	s.Equal(v.VoterID, got.VoterID)

	s.NoError(s.service.Delete(ctx, v.ID))
	_, err = s.service.Get(ctx, v.ID)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))

	// After the strike the voter may cast again.
	_, err = s.service.CastVote(ctx, 11, s.candidateID, s.openElection.ID)
	s.NoError(err)
}
