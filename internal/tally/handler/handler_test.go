package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"nirvachan/internal/election"
	"nirvachan/internal/tally"
	"nirvachan/pkg/testutil"
)

type TallyHandlerSuite struct {
	suite.Suite
	router chi.Router
	store  *tally.InMemoryStore
}

func TestTallyHandlerSuite(t *testing.T) {
	suite.Run(t, new(TallyHandlerSuite))
}

func (s *TallyHandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	elections := election.NewService(election.NewInMemoryStore(), nil, "India", logger)
	s.store = tally.NewInMemoryStore()

	e, err := elections.Create(context.Background(), election.Election{
		Title: "General 2026", Type: "General",
		Date: time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC),
		Region: "India", Status: election.StatusOngoing,
	})
	s.Require().NoError(err)
	s.Require().Equal(int64(1), e.ID)

	s.router = chi.NewRouter()
	New(tally.NewService(s.store, logger), elections, logger).Register(s.router)
}

func (s *TallyHandlerSuite) TestLeaderboard() {
	s.store.AddCandidate(1, 1, "A", "Lok Shakti")
	s.store.AddCandidate(1, 2, "B", "Jan Morcha")
	s.store.AddVote(2)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections/1/leaderboard"))
	s.Equal(http.StatusOK, rr.Code)

	resp := testutil.UnmarshalResponse[struct {
		Leaderboard []struct {
			CandidateID int64  `json:"candidate_id"`
			Name        string `json:"name"`
			Votes       int64  `json:"votes"`
		} `json:"leaderboard"`
	}](s.T(), rr)
	s.Require().Len(resp.Leaderboard, 2)
	s.Equal("B", resp.Leaderboard[0].Name)
	s.Equal(int64(1), resp.Leaderboard[0].Votes)
	s.Equal(int64(0), resp.Leaderboard[1].Votes)
}

func (s *TallyHandlerSuite) TestUnknownElection() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections/99/leaderboard"))
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *TallyHandlerSuite) TestBadID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections/zero/leaderboard"))
	s.Equal(http.StatusBadRequest, rr.Code)
}
