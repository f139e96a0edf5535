package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nirvachan/internal/election"
	"nirvachan/internal/http/shared"
	"nirvachan/internal/tally"
	dErrors "nirvachan/pkg/domain-errors"
)

// ElectionLookup verifies the election exists before tallying it.
type ElectionLookup interface {
	Get(ctx context.Context, id int64) (election.Election, error)
}

// Handler serves live election standings.
type Handler struct {
	tallies   *tally.Service
	elections ElectionLookup
	logger    *slog.Logger
}

func New(tallies *tally.Service, elections ElectionLookup, logger *slog.Logger) *Handler {
	return &Handler{tallies: tallies, elections: elections, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/elections/{id}/leaderboard", h.handleLeaderboard)
}

type rowResponse struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	PartyName   string `json:"party_name"`
	Votes       int64  `json:"votes"`
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid election id"))
		return
	}

	if _, err := h.elections.Get(ctx, electionID); err != nil {
		shared.WriteError(w, err)
		return
	}

	rows, err := h.tallies.Leaderboard(ctx, electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]rowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowResponse{
			CandidateID: row.CandidateID,
			Name:        row.Name,
			PartyName:   row.PartyName,
			Votes:       row.Votes,
		})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"election_id": electionID,
		"leaderboard": out,
	})
}
