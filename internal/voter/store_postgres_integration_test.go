//go:build integration

package voter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"nirvachan/internal/platform/postgres"
	"nirvachan/internal/voter"
	"nirvachan/pkg/platform/sentinel"
	"nirvachan/pkg/testutil/containers"
)

type VoterPostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *voter.PostgresStore
}

func TestVoterPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(VoterPostgresSuite))
}

func (s *VoterPostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.pg.DB))
	s.store = voter.NewPostgres(s.pg.DB)
}

func (s *VoterPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *VoterPostgresSuite) newUser(email string) int64 {
	var id int64
	err := s.pg.DB.QueryRowContext(context.Background(),
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ('Voter', $1, 'x', 'voter') RETURNING id`, email).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *VoterPostgresSuite) TestCreateAndLookup() {
	ctx := context.Background()
	userID := s.newUser("asha@example.com")

	v := voter.Voter{
		UserID: userID, NationalID: "NID-1", CivicCardID: "CIV-1",
		Address: "12 MG Road", Nationality: "Indian", State: "Kerala", Verified: true,
	}
	s.Require().NoError(s.store.Create(ctx, &v))
	s.NotZero(v.ID)
	s.False(v.RegisteredAt.IsZero())

	byUser, err := s.store.FindByUserID(ctx, userID)
	s.NoError(err)
	s.Equal(v.ID, byUser.ID)

	byID, err := s.store.FindByID(ctx, v.ID)
	s.NoError(err)
	s.Equal("Kerala", byID.State)
}

// Each of the three unique constraints must reject on its own.
func (s *VoterPostgresSuite) TestUniqueConstraints() {
	ctx := context.Background()
	base := voter.Voter{
		UserID: s.newUser("first@example.com"), NationalID: "NID-1", CivicCardID: "CIV-1",
		Address: "addr", Nationality: "Indian", State: "Kerala", Verified: true,
	}
	s.Require().NoError(s.store.Create(ctx, &base))

	dupNational := voter.Voter{
		UserID: s.newUser("second@example.com"), NationalID: "NID-1", CivicCardID: "CIV-2",
		Address: "addr", Nationality: "Indian", State: "Kerala", Verified: true,
	}
	s.ErrorIs(s.store.Create(ctx, &dupNational), sentinel.ErrConflict)

	dupCivic := voter.Voter{
		UserID: s.newUser("third@example.com"), NationalID: "NID-3", CivicCardID: "CIV-1",
		Address: "addr", Nationality: "Indian", State: "Kerala", Verified: true,
	}
	s.ErrorIs(s.store.Create(ctx, &dupCivic), sentinel.ErrConflict)

	dupUser := voter.Voter{
		UserID: base.UserID, NationalID: "NID-4", CivicCardID: "CIV-4",
		Address: "addr", Nationality: "Indian", State: "Kerala", Verified: true,
	}
	s.ErrorIs(s.store.Create(ctx, &dupUser), sentinel.ErrConflict)
}

func (s *VoterPostgresSuite) TestMissingVoterIsNotFound() {
	_, err := s.store.FindByUserID(context.Background(), 424242)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
