package voter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"nirvachan/internal/audit"
	"nirvachan/internal/platform/metrics"
	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/platform/sentinel"
	"nirvachan/pkg/requestcontext"
)

// Store abstracts voter persistence. Create relies on the storage layer's
// unique constraints for national_id, civic_card_id, and user_id; a violation
// surfaces as sentinel.ErrConflict. There is deliberately no lookup before
// the insert: concurrent registrations with the same identifier must race on
// the constraint, not on an application-level check.
type Store interface {
	Create(ctx context.Context, v *Voter) error
	FindByID(ctx context.Context, id int64) (Voter, error)
	FindByUserID(ctx context.Context, userID int64) (Voter, error)
	List(ctx context.Context) ([]Voter, error)
}

// Service enforces who may register as a voter.
type Service struct {
	store               Store
	auditor             *audit.Publisher
	metrics             *metrics.Metrics
	logger              *slog.Logger
	acceptedNationality string
}

func NewService(store Store, auditor *audit.Publisher, m *metrics.Metrics, logger *slog.Logger, acceptedNationality string) *Service {
	return &Service{
		store:               store,
		auditor:             auditor,
		metrics:             m,
		logger:              logger,
		acceptedNationality: acceptedNationality,
	}
}

// RegisterInput carries the civic identifiers required to register.
type RegisterInput struct {
	UserID      int64
	NationalID  string
	CivicCardID string
	Address     string
	Nationality string
	State       string
}

// Register creates a voter for the given user. The new voter is verified
// immediately; there is no separate verification workflow. Registering twice
// with the same national_id fails the second time, never silently succeeds.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Voter, error) {
	if in.UserID == 0 || anyBlank(in.NationalID, in.CivicCardID, in.Address, in.Nationality, in.State) {
		return Voter{}, dErrors.New(dErrors.CodeMissingField, "all fields are required")
	}
	if !strings.EqualFold(in.Nationality, s.acceptedNationality) {
		return Voter{}, dErrors.New(dErrors.CodeIneligibleNationality,
			"only "+s.acceptedNationality+" nationals can register")
	}

	v := Voter{
		UserID:      in.UserID,
		NationalID:  strings.TrimSpace(in.NationalID),
		CivicCardID: strings.TrimSpace(in.CivicCardID),
		Address:     strings.TrimSpace(in.Address),
		Nationality: strings.TrimSpace(in.Nationality),
		State:       strings.TrimSpace(in.State),
		Verified:    true,
	}
	if err := s.store.Create(ctx, &v); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Voter{}, dErrors.New(dErrors.CodeDuplicateIdentity,
				"national id or civic card id already registered")
		}
		s.logger.ErrorContext(ctx, "create voter", "error", err)
		return Voter{}, dErrors.New(dErrors.CodeInternal, "could not register voter")
	}

	s.metrics.IncrementVotersRegistered()
	s.emit(ctx, audit.Event{ActorID: in.UserID, Action: audit.ActionVoterRegistered})
	return v, nil
}

// ByUserID returns the voter record for a user, or NotFound when the user has
// not registered.
func (s *Service) ByUserID(ctx context.Context, userID int64) (Voter, error) {
	v, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Voter{}, dErrors.New(dErrors.CodeNotFound, "not registered")
		}
		s.logger.ErrorContext(ctx, "find voter by user", "error", err)
		return Voter{}, dErrors.New(dErrors.CodeInternal, "could not load voter")
	}
	return v, nil
}

// ByID returns a voter by its own identifier.
func (s *Service) ByID(ctx context.Context, id int64) (Voter, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Voter{}, dErrors.New(dErrors.CodeNotFound, "voter not found")
		}
		s.logger.ErrorContext(ctx, "find voter", "error", err)
		return Voter{}, dErrors.New(dErrors.CodeInternal, "could not load voter")
	}
	return v, nil
}

// List returns all voters. Admin-only at the transport layer.
func (s *Service) List(ctx context.Context) ([]Voter, error) {
	voters, err := s.store.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list voters", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "could not list voters")
	}
	return voters, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "emit audit event", "error", err, "action", event.Action)
	}
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
