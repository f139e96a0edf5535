package party

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResolverSuite struct {
	suite.Suite
	store    *InMemory
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.store = NewInMemory()
	s.resolver = NewResolver(s.store, slog.New(slog.DiscardHandler))
}

func (s *ResolverSuite) TestResolveOrCreate() {
	ctx := context.Background()

	s.Run("blank name resolves to nil without creating a row", func() {
		id, err := s.resolver.ResolveOrCreate(ctx, "   ")
		s.NoError(err)
		s.Nil(id)

		parties, err := s.resolver.List(ctx)
		s.NoError(err)
		s.Empty(parties)
	})

	s.Run("new name creates the party", func() {
		id, err := s.resolver.ResolveOrCreate(ctx, "Lok Shakti")
		s.NoError(err)
		s.Require().NotNil(id)
		s.NotZero(*id)
	})

	s.Run("repeat resolution returns the same id", func() {
		first, err := s.resolver.ResolveOrCreate(ctx, "Jan Morcha")
		s.Require().NoError(err)
		second, err := s.resolver.ResolveOrCreate(ctx, "Jan Morcha")
		s.Require().NoError(err)
		s.Equal(*first, *second)
	})

	s.Run("surrounding whitespace is not a different party", func() {
		first, err := s.resolver.ResolveOrCreate(ctx, "Ekta Dal")
		s.Require().NoError(err)
		second, err := s.resolver.ResolveOrCreate(ctx, "  Ekta Dal  ")
		s.Require().NoError(err)
		s.Equal(*first, *second)
	})
}

// TestConcurrentResolve drives the insert race: every goroutine must end up
// with the same party id and exactly one row may exist afterwards.
func (s *ResolverSuite) TestConcurrentResolve() {
	ctx := context.Background()
	const workers = 16

	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			id, err := s.resolver.ResolveOrCreate(ctx, "Rashtriya Sangh")
			if err == nil && id != nil {
				ids[slot] = *id
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		s.Equal(ids[0], id)
		s.NotZero(id)
	}

	parties, err := s.resolver.List(ctx)
	s.NoError(err)
	s.Len(parties, 1)
}
