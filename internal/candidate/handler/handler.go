package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nirvachan/internal/auth/models"
	"nirvachan/internal/candidate"
	"nirvachan/internal/http/shared"
	"nirvachan/internal/platform/middleware"
	dErrors "nirvachan/pkg/domain-errors"
)

// Handler exposes ballot reads plus administrative candidate management.
type Handler struct {
	candidates *candidate.Service
	logger     *slog.Logger
}

func New(candidates *candidate.Service, logger *slog.Logger) *Handler {
	return &Handler{candidates: candidates, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/elections/{id}/candidates", h.handleListByElection)
	r.Get("/candidates/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Post("/candidates", h.handleCreate)
		r.Put("/candidates/{id}", h.handleUpdate)
		r.Delete("/candidates/{id}", h.handleDelete)
	})
}

type candidateRequest struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	NationalID   string `json:"national_id"`
	Status       string `json:"status"`
	Verified     *bool  `json:"verified"`
	ElectionID   int64  `json:"election_id"`
	ElectionType string `json:"election_type"`
}

type candidateResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PartyName  string `json:"party_name"`
	Gender     string `json:"gender,omitempty"`
	DOB        string `json:"dob,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	Status     string `json:"status"`
	Verified   bool   `json:"verified"`
	ElectionID int64  `json:"election_id"`
}

func toCandidateResponse(c candidate.Candidate) candidateResponse {
	resp := candidateResponse{
		ID:         c.ID,
		Name:       c.Name,
		PartyName:  c.PartyName,
		Gender:     c.Gender,
		NationalID: c.NationalID,
		Status:     c.Status,
		Verified:   c.Verified,
		ElectionID: c.ElectionID,
	}
	if !c.DOB.IsZero() {
		resp.DOB = c.DOB.Format("2006-01-02")
	}
	return resp
}

func parseDOB(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "dob must be YYYY-MM-DD")
	}
	return parsed, nil
}

func (h *Handler) handleListByElection(w http.ResponseWriter, r *http.Request) {
	electionID, err := parseID(r, "invalid election id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	list, err := h.candidates.ListByElection(r.Context(), electionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]candidateResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCandidateResponse(c))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"candidates": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "invalid candidate id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.candidates.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"candidate": toCandidateResponse(c)})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	dob, err := parseDOB(req.DOB)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.candidates.Create(r.Context(), candidate.CreateInput{
		Name:         req.Name,
		PartyName:    req.Party,
		Gender:       req.Gender,
		DOB:          dob,
		NationalID:   req.NationalID,
		ElectionID:   req.ElectionID,
		ElectionType: req.ElectionType,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"candidate": toCandidateResponse(c)})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "invalid candidate id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	dob, err := parseDOB(req.DOB)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.candidates.Update(r.Context(), id, candidate.UpdateInput{
		Name:       req.Name,
		PartyName:  req.Party,
		Gender:     req.Gender,
		DOB:        dob,
		NationalID: req.NationalID,
		Status:     req.Status,
		Verified:   req.Verified,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"candidate": toCandidateResponse(c)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "invalid candidate id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.candidates.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "candidate deleted"})
}

func parseID(r *http.Request, msg string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, msg)
	}
	return id, nil
}
