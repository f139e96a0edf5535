package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nirvachan/internal/audit"
	"nirvachan/internal/candidate"
	"nirvachan/internal/platform/metrics"
	"nirvachan/pkg/requestcontext"

	domainerrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/platform/sentinel"
)

// Store is the ledger's persistence contract. Insert must be atomic with the
// one-vote-per-voter-per-election uniqueness check and return
// sentinel.ErrConflict when the pair already exists. A separate existence
// probe before insert would race; the conflict signal is the only authority.
type Store interface {
	Insert(ctx context.Context, v Vote) (Vote, error)
	FindByID(ctx context.Context, id int64) (Vote, error)
	FindByVoterAndElection(ctx context.Context, voterID, electionID int64) (Vote, error)
	ListByElection(ctx context.Context, electionID int64) ([]Vote, error)
	Delete(ctx context.Context, id int64) error
}

// ElectionGate reports whether an election is open for voting.
type ElectionGate interface {
	IsAcceptingVotes(ctx context.Context, id int64) error
}

// CandidateRegistry resolves a candidate's contest.
type CandidateRegistry interface {
	Get(ctx context.Context, id int64) (candidate.Candidate, error)
}

// Service is the vote ledger.
type Service struct {
	store      Store
	elections  ElectionGate
	candidates CandidateRegistry
	auditor    *audit.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(store Store, elections ElectionGate, candidates CandidateRegistry, auditor *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{store: store, elections: elections, candidates: candidates, auditor: auditor, metrics: m, logger: logger}
}

// CastVote records one ballot. Preconditions run in a fixed order: the
// election must be open, the candidate must belong to it, and only then does
// the insert run. Concurrent duplicates surface as a storage conflict and are
// rejected, never double counted.
func (s *Service) CastVote(ctx context.Context, voterID, candidateID, electionID int64) (Vote, error) {
	if voterID == 0 || candidateID == 0 || electionID == 0 {
		return Vote{}, domainerrors.New(domainerrors.CodeMissingField, "voter, candidate and election are required")
	}

	if err := s.elections.IsAcceptingVotes(ctx, electionID); err != nil {
		s.metrics.IncrementVotesRejected(string(domainerrors.CodeOf(err)))
		return Vote{}, err
	}

	c, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		s.metrics.IncrementVotesRejected(string(domainerrors.CodeOf(err)))
		return Vote{}, err
	}
	if c.ElectionID != electionID {
		s.metrics.IncrementVotesRejected(string(domainerrors.CodeCandidateMismatch))
		return Vote{}, domainerrors.New(domainerrors.CodeCandidateMismatch, "candidate is not on this election's ballot")
	}

	v, err := s.store.Insert(ctx, Vote{
		VoterID:     voterID,
		CandidateID: candidateID,
		ElectionID:  electionID,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementVotesRejected(string(domainerrors.CodeAlreadyVoted))
			return Vote{}, domainerrors.New(domainerrors.CodeAlreadyVoted, "you have already voted in this election")
		}
		return Vote{}, fmt.Errorf("insert vote: %w", err)
	}

	s.metrics.IncrementVotesCast()
	s.emit(ctx, audit.Event{
		ActorID: requestcontext.UserID(ctx),
		Action:  audit.ActionVoteCast,
		Detail:  fmt.Sprintf("vote %d in election %d", v.ID, electionID),
	})
	s.logger.InfoContext(ctx, "vote cast", "vote_id", v.ID, "election_id", electionID)
	return v, nil
}

// HasVoted reports whether the voter already has a ballot in the election.
// Informational only; CastVote never consults it.
func (s *Service) HasVoted(ctx context.Context, voterID, electionID int64) (bool, error) {
	_, err := s.store.FindByVoterAndElection(ctx, voterID, electionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find vote: %w", err)
	}
	return true, nil
}

// Get returns a single vote, for administrative review.
func (s *Service) Get(ctx context.Context, id int64) (Vote, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Vote{}, domainerrors.New(domainerrors.CodeNotFound, "vote not found")
		}
		return Vote{}, fmt.Errorf("find vote: %w", err)
	}
	return v, nil
}

// ListByElection returns an election's ledger, for administrative review.
func (s *Service) ListByElection(ctx context.Context, electionID int64) ([]Vote, error) {
	out, err := s.store.ListByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return out, nil
}

// Delete strikes a vote from the ledger. Administrative correction only.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "vote not found")
		}
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "emit audit event", "error", err, "action", event.Action)
	}
}
