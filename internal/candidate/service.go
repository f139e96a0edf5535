package candidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nirvachan/internal/audit"
	"nirvachan/internal/election"
	"nirvachan/internal/party"
	"nirvachan/pkg/requestcontext"

	domainerrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/platform/sentinel"
)

// Store is the persistence contract for candidates.
type Store interface {
	Create(ctx context.Context, c Candidate) (Candidate, error)
	FindByID(ctx context.Context, id int64) (Candidate, error)
	ListByElection(ctx context.Context, electionID int64) ([]Candidate, error)
	Update(ctx context.Context, c Candidate) error
	Delete(ctx context.Context, id int64) error
}

// ElectionRegistry is the slice of the election service candidates need.
type ElectionRegistry interface {
	Get(ctx context.Context, id int64) (election.Election, error)
	LatestByType(ctx context.Context, electionType string) (election.Election, error)
}

// CreateInput carries a filing. Exactly one of ElectionID or ElectionType
// must identify the contest; a type resolves to its latest election.
type CreateInput struct {
	Name         string
	PartyName    string
	Gender       string
	DOB          time.Time
	NationalID   string
	ElectionID   int64
	ElectionType string
}

// UpdateInput carries an administrative correction. Zero-valued fields leave
// the stored value unchanged; Verified is a pointer so false is expressible.
type UpdateInput struct {
	Name       string
	PartyName  string
	Gender     string
	DOB        time.Time
	NationalID string
	Status     string
	Verified   *bool
}

// Service manages ballot entries.
type Service struct {
	store     Store
	parties   *party.Resolver
	elections ElectionRegistry
	auditor   *audit.Publisher
	logger    *slog.Logger
}

func NewService(store Store, parties *party.Resolver, elections ElectionRegistry, auditor *audit.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, parties: parties, elections: elections, auditor: auditor, logger: logger}
}

// Create files a candidate, resolving the named party and the target
// election before inserting.
func (s *Service) Create(ctx context.Context, in CreateInput) (Candidate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Candidate{}, domainerrors.New(domainerrors.CodeMissingField, "candidate name is required")
	}

	electionID := in.ElectionID
	if electionID == 0 {
		if strings.TrimSpace(in.ElectionType) == "" {
			return Candidate{}, domainerrors.New(domainerrors.CodeMissingField, "election id or election type is required")
		}
		e, err := s.elections.LatestByType(ctx, in.ElectionType)
		if err != nil {
			return Candidate{}, err
		}
		electionID = e.ID
	} else if _, err := s.elections.Get(ctx, electionID); err != nil {
		return Candidate{}, err
	}

	partyID, err := s.parties.ResolveOrCreate(ctx, in.PartyName)
	if err != nil {
		return Candidate{}, err
	}

	c := Candidate{
		Name:       strings.TrimSpace(in.Name),
		Gender:     strings.TrimSpace(in.Gender),
		DOB:        in.DOB,
		NationalID: strings.TrimSpace(in.NationalID),
		Status:     StatusActive,
		ElectionID: electionID,
		PartyID:    partyID,
	}
	if partyID != nil {
		c.PartyName = strings.TrimSpace(in.PartyName)
	}

	created, err := s.store.Create(ctx, c)
	if err != nil {
		return Candidate{}, fmt.Errorf("create candidate: %w", err)
	}

	s.emit(ctx, audit.Event{
		ActorID: requestcontext.UserID(ctx),
		Action:  audit.ActionCandidateCreated,
		Detail:  fmt.Sprintf("candidate %d filed for election %d", created.ID, electionID),
	})
	s.logger.InfoContext(ctx, "candidate created",
		"candidate_id", created.ID, "election_id", electionID, "party", c.PartyName)
	return created, nil
}

// Get returns a candidate by id.
func (s *Service) Get(ctx context.Context, id int64) (Candidate, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Candidate{}, domainerrors.New(domainerrors.CodeNotFound, "candidate not found")
		}
		return Candidate{}, fmt.Errorf("find candidate: %w", err)
	}
	return c, nil
}

// ListByElection returns the ballot for one election.
func (s *Service) ListByElection(ctx context.Context, electionID int64) ([]Candidate, error) {
	out, err := s.store.ListByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return out, nil
}

// Update applies an administrative correction to a filing.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Candidate, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	if strings.TrimSpace(in.Name) != "" {
		c.Name = strings.TrimSpace(in.Name)
	}
	if strings.TrimSpace(in.Gender) != "" {
		c.Gender = strings.TrimSpace(in.Gender)
	}
	if !in.DOB.IsZero() {
		c.DOB = in.DOB
	}
	if strings.TrimSpace(in.NationalID) != "" {
		c.NationalID = strings.TrimSpace(in.NationalID)
	}
	if strings.TrimSpace(in.Status) != "" {
		c.Status = strings.TrimSpace(in.Status)
	}
	if in.Verified != nil {
		c.Verified = *in.Verified
	}
	if strings.TrimSpace(in.PartyName) != "" {
		partyID, err := s.parties.ResolveOrCreate(ctx, in.PartyName)
		if err != nil {
			return Candidate{}, err
		}
		c.PartyID = partyID
		c.PartyName = strings.TrimSpace(in.PartyName)
	}
	if err := s.store.Update(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Candidate{}, domainerrors.New(domainerrors.CodeNotFound, "candidate not found")
		}
		return Candidate{}, fmt.Errorf("update candidate: %w", err)
	}
	return c, nil
}

// Delete withdraws a candidate.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "candidate not found")
		}
		return fmt.Errorf("delete candidate: %w", err)
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
