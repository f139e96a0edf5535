package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"nirvachan/internal/auth/models"
	"nirvachan/internal/auth/service"
	"nirvachan/internal/http/shared"
	"nirvachan/internal/platform/middleware"
	votermodels "nirvachan/internal/voter"
	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/requestcontext"
)

// VoterLookup lets the profile endpoint attach the caller's voter record
// without the auth feature owning voter persistence.
type VoterLookup interface {
	ByUserID(ctx context.Context, userID int64) (votermodels.Voter, error)
}

// Handler exposes the identity gate over HTTP.
type Handler struct {
	auth   *service.Service
	voters VoterLookup
	logger *slog.Logger
}

func New(auth *service.Service, voters VoterLookup, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, voters: voters, logger: logger}
}

// Register mounts the public auth routes and the authenticated profile route.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.auth, h.logger))
		r.Post("/auth/logout", h.handleLogout)
		r.Get("/auth/me", h.handleMe)
		r.Get("/users/me", h.handleProfile)
	})
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

type userResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

func toUserResponse(u models.User) userResponse {
	resp := userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Gender: u.Gender,
	}
	if !u.DateOfBirth.IsZero() {
		resp.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateRegisterRequest(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD"))
			return
		}
		dob = parsed
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Gender:      req.Gender,
		DateOfBirth: dob,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"user": toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsEmail(req.Email) || req.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  toUserResponse(result.User),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing token"))
		return
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id":       requestcontext.UserID(ctx),
		"role":          requestcontext.Role(ctx),
		"authenticated": true,
	})
}

// handleProfile joins the user record with the voter record when the caller
// has registered as a voter.
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.auth.GetUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	profile := map[string]any{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
		"gender": user.Gender,
	}
	if !user.DateOfBirth.IsZero() {
		profile["date_of_birth"] = user.DateOfBirth.Format("2006-01-02")
	}

	voter, err := h.voters.ByUserID(ctx, user.ID)
	if err == nil {
		profile["voter"] = map[string]any{
			"id":            voter.ID,
			"national_id":   voter.NationalID,
			"civic_card_id": voter.CivicCardID,
			"address":       voter.Address,
			"nationality":   voter.Nationality,
			"state":         voter.State,
			"verified":      voter.Verified,
		}
	} else if dErrors.CodeOf(err) != dErrors.CodeNotFound {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, profile)
}

func validateRegisterRequest(req registerRequest) error {
	if !govalidator.StringLength(req.Email, "1", "255") || !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "8", "128") {
		return dErrors.New(dErrors.CodeValidation, "password must be 8-128 characters")
	}
	if len(req.Name) > 255 {
		return dErrors.New(dErrors.CodeValidation, "name too long")
	}
	return nil
}
