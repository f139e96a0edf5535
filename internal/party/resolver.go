package party

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/platform/sentinel"
)

// Party is a named affiliation shared across candidates.
type Party struct {
	ID   int64
	Name string
}

// Store abstracts party persistence. Insert must be guarded by a unique
// constraint on name so a losing concurrent creator gets
// sentinel.ErrConflict instead of producing a second row for the same name.
type Store interface {
	Insert(ctx context.Context, name string) (int64, error)
	FindByName(ctx context.Context, name string) (Party, error)
	List(ctx context.Context) ([]Party, error)
}

// Resolver maps a free-text party name to a stable party identity, creating
// one lazily on first sight.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// ResolveOrCreate returns the party ID for name, creating the party if it is
// not yet known. Blank or whitespace-only names resolve to nil (independent
// candidate) and never create a row.
//
// Resolution is lookup-then-insert; when a concurrent caller wins the insert
// race, the unique constraint rejects ours and the retry lookup finds the
// winner's row, so both callers get the same ID.
func (r *Resolver) ResolveOrCreate(ctx context.Context, name string) (*int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}

	if p, err := r.store.FindByName(ctx, trimmed); err == nil {
		return &p.ID, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		r.logger.ErrorContext(ctx, "find party", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "could not resolve party")
	}

	id, err := r.store.Insert(ctx, trimmed)
	if err == nil {
		return &id, nil
	}
	if !errors.Is(err, sentinel.ErrConflict) {
		r.logger.ErrorContext(ctx, "insert party", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "could not resolve party")
	}

	// Lost the race; the winner's row must exist now.
	p, err := r.store.FindByName(ctx, trimmed)
	if err != nil {
		r.logger.ErrorContext(ctx, "find party after conflict", "error", err)
		return nil, dErrors.New(dErrors.CodeConflictRetryable, "party creation conflicted, retry")
	}
	return &p.ID, nil
}

// List returns all known parties ordered by ID.
func (r *Resolver) List(ctx context.Context) ([]Party, error) {
	parties, err := r.store.List(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "list parties", "error", err)
		return nil, dErrors.New(dErrors.CodeInternal, "could not list parties")
	}
	return parties, nil
}
