package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"nirvachan/internal/audit"
	"nirvachan/internal/auth/models"
	"nirvachan/internal/voter"
	"nirvachan/pkg/requestcontext"
	"nirvachan/pkg/testutil"
)

type VoterHandlerSuite struct {
	suite.Suite
	router chi.Router
	role   string
	userID int64
}

func TestVoterHandlerSuite(t *testing.T) {
	suite.Run(t, new(VoterHandlerSuite))
}

func (s *VoterHandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), logger)
	voters := voter.NewService(voter.NewInMemory(), auditor, nil, logger, "Indian")

	s.role = models.RoleVoter
	s.userID = 1

	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithIdentity(r.Context(), requestcontext.Identity{
				UserID: s.userID, Role: s.role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	New(voters, logger).Register(s.router)
}

func (s *VoterHandlerSuite) registerBody() map[string]string {
	return map[string]string{
		"national_id":   "1234-5678-9012",
		"civic_card_id": "ABC1234567",
		"address":       "12 MG Road, Kochi",
		"nationality":   "Indian",
		"state":         "Kerala",
	}
}

func (s *VoterHandlerSuite) TestRegister() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/voters", s.registerBody())
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusCreated, rr.Code)

	resp := testutil.UnmarshalResponse[struct {
		Voter struct {
			ID       int64 `json:"id"`
			UserID   int64 `json:"user_id"`
			Verified bool  `json:"verified"`
		} `json:"voter"`
	}](s.T(), rr)
	s.Equal(s.userID, resp.Voter.UserID)
	s.True(resp.Voter.Verified)
}

func (s *VoterHandlerSuite) TestIneligibleNationality() {
	body := s.registerBody()
	body["nationality"] = "Norwegian"

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/voters", body))
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal("ineligible_nationality", testutil.UnmarshalErrorResponse(s.T(), rr)["error"])
}

func (s *VoterHandlerSuite) TestDuplicateIdentity() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/voters", s.registerBody()))
	s.Require().Equal(http.StatusCreated, rr.Code)

	// Another user presenting the same national id.
	s.userID = 2
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/voters", s.registerBody()))
	s.Equal(http.StatusConflict, rr.Code)
	s.Equal("duplicate_identity", testutil.UnmarshalErrorResponse(s.T(), rr)["error"])
}

func (s *VoterHandlerSuite) TestMe() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/voters/me"))
	s.Equal(http.StatusNotFound, rr.Code)

	s.Require().Equal(http.StatusCreated,
		testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/voters", s.registerBody())).Code)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/voters/me"))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *VoterHandlerSuite) TestAdminListRequiresRole() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/voters"))
	s.Equal(http.StatusForbidden, rr.Code)

	s.role = models.RoleAdmin
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/voters"))
	s.Equal(http.StatusOK, rr.Code)
}
