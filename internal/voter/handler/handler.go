package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nirvachan/internal/auth/models"
	"nirvachan/internal/http/shared"
	"nirvachan/internal/platform/middleware"
	"nirvachan/internal/voter"
	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/requestcontext"
)

// Handler exposes voter registration and lookup over HTTP.
type Handler struct {
	voters *voter.Service
	logger *slog.Logger
}

func New(voters *voter.Service, logger *slog.Logger) *Handler {
	return &Handler{voters: voters, logger: logger}
}

// Register mounts the voter routes. All of them require authentication; the
// listing routes additionally require the admin role.
func (h *Handler) Register(r chi.Router) {
	r.Post("/voters", h.handleRegister)
	r.Get("/voters/me", h.handleMe)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/voters", h.handleList)
		r.Get("/voters/{id}", h.handleGet)
	})
}

type registerRequest struct {
	NationalID  string `json:"national_id"`
	CivicCardID string `json:"civic_card_id"`
	Address     string `json:"address"`
	Nationality string `json:"nationality"`
	State       string `json:"state"`
}

type voterResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	NationalID  string `json:"national_id"`
	CivicCardID string `json:"civic_card_id"`
	Address     string `json:"address"`
	Nationality string `json:"nationality"`
	State       string `json:"state"`
	Verified    bool   `json:"verified"`
}

func toVoterResponse(v voter.Voter) voterResponse {
	return voterResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		NationalID:  v.NationalID,
		CivicCardID: v.CivicCardID,
		Address:     v.Address,
		Nationality: v.Nationality,
		State:       v.State,
		Verified:    v.Verified,
	}
}

// handleRegister enrolls the calling user. The user id comes from the
// authenticated identity, never from the request body.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	v, err := h.voters.Register(r.Context(), voter.RegisterInput{
		UserID:      requestcontext.UserID(r.Context()),
		NationalID:  req.NationalID,
		CivicCardID: req.CivicCardID,
		Address:     req.Address,
		Nationality: req.Nationality,
		State:       req.State,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"voter": toVoterResponse(v)})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	v, err := h.voters.ByUserID(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"voter": toVoterResponse(v)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid voter id"))
		return
	}
	v, err := h.voters.ByID(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"voter": toVoterResponse(v)})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	voters, err := h.voters.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]voterResponse, 0, len(voters))
	for _, v := range voters {
		out = append(out, toVoterResponse(v))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"voters": out})
}
