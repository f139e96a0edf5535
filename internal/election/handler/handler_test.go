package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"nirvachan/internal/audit"
	"nirvachan/internal/auth/models"
	"nirvachan/internal/election"
	"nirvachan/internal/voter"
	"nirvachan/pkg/requestcontext"
	"nirvachan/pkg/testutil"
)

type ElectionHandlerSuite struct {
	suite.Suite
	router chi.Router
	role   string
	userID int64
}

func TestElectionHandlerSuite(t *testing.T) {
	suite.Run(t, new(ElectionHandlerSuite))
}

func (s *ElectionHandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), logger)

	elections := election.NewService(election.NewInMemoryStore(), auditor, "India", logger)
	voters := voter.NewService(voter.NewInMemory(), auditor, nil, logger, "Indian")

	s.role = models.RoleAdmin
	s.userID = 1
	_, err := voters.Register(context.Background(), voter.RegisterInput{
		UserID:      s.userID,
		NationalID:  "1234-5678-9012",
		CivicCardID: "ABC1234567",
		Address:     "12 MG Road, Kochi",
		Nationality: "Indian",
		State:       "Kerala",
	})
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithIdentity(r.Context(), requestcontext.Identity{
				UserID: s.userID, Role: s.role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	New(elections, voters, "Indian", logger).Register(s.router)
}

func (s *ElectionHandlerSuite) createElection(title, region string) int64 {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/elections", map[string]string{
		"title":  title,
		"type":   "General",
		"date":   "2026-11-03",
		"region": region,
		"status": election.StatusOngoing,
	})
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code)

	resp := testutil.UnmarshalResponse[struct {
		Election struct {
			ID int64 `json:"id"`
		} `json:"election"`
	}](s.T(), rr)
	return resp.Election.ID
}

// The default listing is filtered to the caller's residency; /elections/all
// shows an admin everything.
func (s *ElectionHandlerSuite) TestRelevanceOverHTTP() {
	s.createElection("General 2026", "India")
	s.createElection("Kerala Assembly", "Kerala")
	s.createElection("Punjab Assembly", "Punjab")

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections"))
	s.Require().Equal(http.StatusOK, rr.Code)
	filtered := testutil.UnmarshalResponse[struct {
		Elections []struct {
			Title string `json:"title"`
		} `json:"elections"`
	}](s.T(), rr)
	s.Len(filtered.Elections, 2)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections/all"))
	s.Require().Equal(http.StatusOK, rr.Code)
	all := testutil.UnmarshalResponse[struct {
		Elections []struct {
			Title string `json:"title"`
		} `json:"elections"`
	}](s.T(), rr)
	s.Len(all.Elections, 3)
}

func (s *ElectionHandlerSuite) TestListingRequiresVoterRegistration() {
	s.createElection("General 2026", "India")

	s.userID = 99 // no voter record
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections"))
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *ElectionHandlerSuite) TestMutationRequiresAdmin() {
	s.role = models.RoleVoter
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/elections", map[string]string{
		"title": "X", "type": "General", "region": "India",
	})
	s.Equal(http.StatusForbidden, testutil.DoRequest(s.router, req).Code)
}

func (s *ElectionHandlerSuite) TestUpdateAndDelete() {
	id := s.createElection("General 2026", "India")

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/elections/1", map[string]string{
		"title":  "General 2026",
		"type":   "General",
		"date":   "2026-11-03",
		"region": "India",
		"status": election.StatusCompleted,
	})
	s.Equal(http.StatusOK, testutil.DoRequest(s.router, req).Code)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections/1"))
	s.Require().Equal(http.StatusOK, rr.Code)
	got := testutil.UnmarshalResponse[struct {
		Election struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"election"`
	}](s.T(), rr)
	s.Equal(id, got.Election.ID)
	s.Equal(election.StatusCompleted, got.Election.Status)

	s.Equal(http.StatusOK,
		testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/elections/1")).Code)
	s.Equal(http.StatusNotFound,
		testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/elections/1")).Code)
}
