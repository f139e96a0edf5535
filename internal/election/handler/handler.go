package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nirvachan/internal/auth/models"
	"nirvachan/internal/election"
	"nirvachan/internal/http/shared"
	"nirvachan/internal/platform/middleware"
	votermodels "nirvachan/internal/voter"
	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/requestcontext"
)

// VoterLookup resolves the caller's voter record for the relevance filter.
type VoterLookup interface {
	ByUserID(ctx context.Context, userID int64) (votermodels.Voter, error)
}

// Handler exposes election listing and administration over HTTP.
type Handler struct {
	elections           *election.Service
	voters              VoterLookup
	acceptedNationality string
	logger              *slog.Logger
}

func New(elections *election.Service, voters VoterLookup, acceptedNationality string, logger *slog.Logger) *Handler {
	return &Handler{
		elections:           elections,
		voters:              voters,
		acceptedNationality: acceptedNationality,
		logger:              logger,
	}
}

// Register mounts the election routes. Listing requires a logged-in voter;
// mutation requires admin.
func (h *Handler) Register(r chi.Router) {
	r.Get("/elections", h.handleListRelevant)
	r.Get("/elections/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/elections/all", h.handleListAll)
		r.Post("/elections", h.handleCreate)
		r.Put("/elections/{id}", h.handleUpdate)
		r.Delete("/elections/{id}", h.handleDelete)
	})
}

type electionRequest struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Region string `json:"region"`
	Status string `json:"status"`
}

type electionResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Region string `json:"region"`
	Status string `json:"status"`
}

type candidateSummaryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PartyName string `json:"party_name"`
}

type electionWithCandidatesResponse struct {
	electionResponse
	Candidates []candidateSummaryResponse `json:"candidates"`
}

func toElectionResponse(e election.Election) electionResponse {
	return electionResponse{
		ID:     e.ID,
		Title:  e.Title,
		Type:   e.Type,
		Date:   e.Date.Format("2006-01-02"),
		Region: e.Region,
		Status: e.Status,
	}
}

func toWithCandidatesResponse(e election.WithCandidates) electionWithCandidatesResponse {
	resp := electionWithCandidatesResponse{
		electionResponse: toElectionResponse(e.Election),
		Candidates:       make([]candidateSummaryResponse, 0, len(e.Candidates)),
	}
	for _, c := range e.Candidates {
		resp.Candidates = append(resp.Candidates, candidateSummaryResponse{
			ID:        c.ID,
			Name:      c.Name,
			PartyName: c.PartyName,
		})
	}
	return resp
}

// handleListRelevant filters elections by the caller's registered residency.
// Callers who have not registered as voters see nothing election-specific, so
// a missing voter record is a domain error here.
func (h *Handler) handleListRelevant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.voters.ByUserID(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	list, err := h.elections.ListRelevant(ctx, v.Nationality, v.State, h.acceptedNationality)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	out := make([]electionWithCandidatesResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toWithCandidatesResponse(e))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"elections": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.elections.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"election": toElectionResponse(e)})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.elections.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]electionResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toElectionResponse(e))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"elections": out})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	e, err := decodeElection(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	created, err := h.elections.Create(r.Context(), e)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"election": toElectionResponse(created)})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := decodeElection(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	e.ID = id
	if err := h.elections.Update(r.Context(), e); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"election": toElectionResponse(e)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.elections.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "election deleted"})
}

func decodeElection(r *http.Request) (election.Election, error) {
	var req electionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return election.Election{}, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	e := election.Election{
		Title:  req.Title,
		Type:   req.Type,
		Region: req.Region,
		Status: req.Status,
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return election.Election{}, dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD")
		}
		e.Date = parsed
	}
	return e, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid election id")
	}
	return id, nil
}
