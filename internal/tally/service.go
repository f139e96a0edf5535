// Package tally computes election results. Counts are always derived from the
// vote ledger at read time; nothing here stores a running total.
package tally

import (
	"context"
	"fmt"
	"log/slog"
)

// Row is one leaderboard entry. Candidates with no votes still appear.
type Row struct {
	CandidateID int64
	Name        string
	PartyName   string
	Votes       int64
}

// Store produces the ordered leaderboard for one election: vote count
// descending, candidate id ascending as the tie break.
type Store interface {
	Leaderboard(ctx context.Context, electionID int64) ([]Row, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Leaderboard returns the current standings for an election.
func (s *Service) Leaderboard(ctx context.Context, electionID int64) ([]Row, error) {
	rows, err := s.store.Leaderboard(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("tally election %d: %w", electionID, err)
	}
	return rows, nil
}
