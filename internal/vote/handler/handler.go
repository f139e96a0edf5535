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
	"nirvachan/internal/http/shared"
	"nirvachan/internal/platform/middleware"
	"nirvachan/internal/vote"
	votermodels "nirvachan/internal/voter"
	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/requestcontext"
)

// VoterLookup maps the authenticated user to their voter registration. Only
// registered voters can reach the ledger.
type VoterLookup interface {
	ByUserID(ctx context.Context, userID int64) (votermodels.Voter, error)
}

// Handler exposes vote casting plus administrative ledger review.
type Handler struct {
	votes  *vote.Service
	voters VoterLookup
	logger *slog.Logger
}

func New(votes *vote.Service, voters VoterLookup, logger *slog.Logger) *Handler {
	return &Handler{votes: votes, voters: voters, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/elections/{id}/vote", h.handleCast)
	r.Get("/elections/{id}/vote-status", h.handleStatus)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/elections/{id}/votes", h.handleListByElection)
		r.Get("/votes/{id}", h.handleGet)
		r.Delete("/votes/{id}", h.handleDelete)
	})
}

type castRequest struct {
	CandidateID int64 `json:"candidate_id"`
}

type voteResponse struct {
	ID          int64  `json:"id"`
	VoterID     int64  `json:"voter_id"`
	CandidateID int64  `json:"candidate_id"`
	ElectionID  int64  `json:"election_id"`
	CastAt      string `json:"cast_at"`
}

func toVoteResponse(v vote.Vote) voteResponse {
	return voteResponse{
		ID:          v.ID,
		VoterID:     v.VoterID,
		CandidateID: v.CandidateID,
		ElectionID:  v.ElectionID,
		CastAt:      v.CastAt.Format(time.RFC3339),
	}
}

// handleCast records the caller's ballot. The voter id is resolved from the
// authenticated identity; the body names only the candidate.
func (h *Handler) handleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID, err := parseID(r, "invalid election id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req castRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	voter, err := h.voters.ByUserID(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	v, err := h.votes.CastVote(ctx, voter.ID, req.CandidateID, electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"vote": toVoteResponse(v)})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID, err := parseID(r, "invalid election id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	voter, err := h.voters.ByUserID(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	voted, err := h.votes.HasVoted(ctx, voter.ID, electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"election_id": electionID,
		"has_voted":   voted,
	})
}

func (h *Handler) handleListByElection(w http.ResponseWriter, r *http.Request) {
	electionID, err := parseID(r, "invalid election id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	list, err := h.votes.ListByElection(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]voteResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVoteResponse(v))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"votes": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "invalid vote id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	v, err := h.votes.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"vote": toVoteResponse(v)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "invalid vote id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.votes.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "vote deleted"})
}

func parseID(r *http.Request, msg string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, msg)
	}
	return id, nil
}
