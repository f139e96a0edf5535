package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nirvachan/internal/audit"
	"nirvachan/pkg/requestcontext"

	domainerrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/platform/sentinel"
)

// Store is the persistence contract. Lookups return sentinel.ErrNotFound for
// missing rows.
type Store interface {
	Create(ctx context.Context, e Election) (Election, error)
	FindByID(ctx context.Context, id int64) (Election, error)
	LatestByType(ctx context.Context, electionType string) (Election, error)
	List(ctx context.Context) ([]Election, error)
	ListWithCandidates(ctx context.Context) ([]WithCandidates, error)
	Update(ctx context.Context, e Election) error
	Delete(ctx context.Context, id int64) error
}

// Service manages elections and decides which ones a given voter should see.
type Service struct {
	store          Store
	auditor        *audit.Publisher
	nationalRegion string
	logger         *slog.Logger
}

func NewService(store Store, auditor *audit.Publisher, nationalRegion string, logger *slog.Logger) *Service {
	return &Service{store: store, auditor: auditor, nationalRegion: nationalRegion, logger: logger}
}

// Create registers a new election. Status defaults to Upcoming.
func (s *Service) Create(ctx context.Context, e Election) (Election, error) {
	if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Type) == "" || strings.TrimSpace(e.Region) == "" {
		return Election{}, domainerrors.New(domainerrors.CodeMissingField, "title, type and region are required")
	}
	if e.Status == "" {
		e.Status = StatusUpcoming
	}
	if !validStatus(e.Status) {
		return Election{}, domainerrors.New(domainerrors.CodeValidation, "invalid election status")
	}

	created, err := s.store.Create(ctx, e)
	if err != nil {
		return Election{}, fmt.Errorf("create election: %w", err)
	}

	s.emit(ctx, audit.Event{
		ActorID: requestcontext.UserID(ctx),
		Action:  audit.ActionElectionCreated,
		Detail:  fmt.Sprintf("election %d (%s) scheduled for %s", created.ID, created.Title, created.Region),
	})
	s.logger.InfoContext(ctx, "election created", "election_id", created.ID, "title", created.Title)
	return created, nil
}

// Get returns a single election by id.
func (s *Service) Get(ctx context.Context, id int64) (Election, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Election{}, domainerrors.New(domainerrors.CodeNotFound, "election not found")
		}
		return Election{}, fmt.Errorf("find election: %w", err)
	}
	return e, nil
}

// LatestByType returns the most recently scheduled election of the given
// type, used when a candidate is filed against a type instead of an id.
func (s *Service) LatestByType(ctx context.Context, electionType string) (Election, error) {
	e, err := s.store.LatestByType(ctx, electionType)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Election{}, domainerrors.New(domainerrors.CodeNotFound, "no election of that type")
		}
		return Election{}, fmt.Errorf("find election by type: %w", err)
	}
	return e, nil
}

// List returns every election, for administrative views.
func (s *Service) List(ctx context.Context) ([]Election, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	return out, nil
}

// ListRelevant applies the residency filter. Voters of the accepted
// nationality see national elections plus elections in their own state;
// anyone else sees the full list.
func (s *Service) ListRelevant(ctx context.Context, nationality, state string, accepted string) ([]WithCandidates, error) {
	all, err := s.store.ListWithCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	if !strings.EqualFold(nationality, accepted) {
		return all, nil
	}
	out := make([]WithCandidates, 0, len(all))
	for _, e := range all {
		if strings.EqualFold(e.Region, s.nationalRegion) || strings.EqualFold(e.Region, state) {
			out = append(out, e)
		}
	}
	return out, nil
}

// IsAcceptingVotes reports whether the election exists and is open.
func (s *Service) IsAcceptingVotes(ctx context.Context, id int64) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.Status != StatusOngoing {
		return domainerrors.New(domainerrors.CodeElectionNotOpen, "election is not accepting votes")
	}
	return nil
}

// Update replaces the mutable fields of an election.
func (s *Service) Update(ctx context.Context, e Election) error {
	if !validStatus(e.Status) {
		return domainerrors.New(domainerrors.CodeValidation, "invalid election status")
	}
	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "election not found")
		}
		return fmt.Errorf("update election: %w", err)
	}
	return nil
}

// Delete removes an election.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "election not found")
		}
		return fmt.Errorf("delete election: %w", err)
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

func validStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}
