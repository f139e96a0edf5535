package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nirvachan/internal/auth/models"
	"nirvachan/internal/http/shared"
	"nirvachan/internal/party"
	"nirvachan/internal/platform/middleware"
)

// Handler lists registered parties for administrative views. Parties are
// created implicitly through candidate filings, so there is no POST here.
type Handler struct {
	parties *party.Resolver
	logger  *slog.Logger
}

func New(parties *party.Resolver, logger *slog.Logger) *Handler {
	return &Handler{parties: parties, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/parties", h.handleList)
	})
}

type partyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.parties.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]partyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, partyResponse{ID: p.ID, Name: p.Name})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"parties": out})
}
