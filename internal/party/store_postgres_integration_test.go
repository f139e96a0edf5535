//go:build integration

package party_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"nirvachan/internal/party"
	"nirvachan/internal/platform/postgres"
	"nirvachan/pkg/platform/sentinel"
	"nirvachan/pkg/testutil/containers"
)

type PartyPostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *party.PostgresStore
}

func TestPartyPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PartyPostgresSuite))
}

func (s *PartyPostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.pg.DB))
	s.store = party.NewPostgres(s.pg.DB)
}

func (s *PartyPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PartyPostgresSuite) TestInsertDuplicateName() {
	ctx := context.Background()

	_, err := s.store.Insert(ctx, "Lok Shakti")
	s.Require().NoError(err)

	_, err = s.store.Insert(ctx, "Lok Shakti")
	s.ErrorIs(err, sentinel.ErrConflict)
}

// TestConcurrentResolve runs the full resolver against the real constraint:
// all racers converge on one row.
func (s *PartyPostgresSuite) TestConcurrentResolve() {
	ctx := context.Background()
	resolver := party.NewResolver(s.store, slog.New(slog.DiscardHandler))
	const goroutines = 20

	ids := make([]int64, goroutines)
	errs := make([]error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			id, err := resolver.ResolveOrCreate(ctx, "Jan Morcha")
			errs[slot] = err
			if id != nil {
				ids[slot] = *id
			}
		}(i)
	}
	wg.Wait()

	for i := range errs {
		s.Require().NoError(errs[i])
		s.Equal(ids[0], ids[i])
	}

	parties, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(parties, 1)
}

func (s *PartyPostgresSuite) TestFindByNameMiss() {
	_, err := s.store.FindByName(context.Background(), "Ghost Party")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}
