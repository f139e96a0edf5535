package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"nirvachan/internal/audit"
	"nirvachan/internal/auth/models"
	"nirvachan/internal/auth/secrets"
	"nirvachan/internal/jwttoken"
	dErrors "nirvachan/pkg/domain-errors"
	"nirvachan/pkg/platform/sentinel"
	"nirvachan/pkg/requestcontext"
)

// UserStore abstracts user persistence. Conflicts on unique email surface as
// sentinel.ErrConflict.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByEmailAndRole(ctx context.Context, email, role string) (models.User, error)
}

// RevocationList tracks logged-out token IDs until their natural expiry.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service is the identity gate: it turns credentials into signed identities
// and resolves bearer tokens back into them. The rest of the core receives
// identity as explicit values and never touches tokens.
type Service struct {
	users    UserStore
	tokens   *jwttoken.Service
	trl      RevocationList
	auditor  *audit.Publisher
	logger   *slog.Logger
	tokenTTL time.Duration
}

func New(users UserStore, tokens *jwttoken.Service, trl RevocationList, auditor *audit.Publisher, logger *slog.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		trl:      trl,
		auditor:  auditor,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// RegisterInput carries everything needed to create a user account.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Gender      string
	DateOfBirth time.Time
}

// Register creates a user account. Duplicate emails fail; they are enforced by
// the store's unique constraint, not a pre-check.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	// Stored lowercase so the unique constraint treats A@x.com and a@x.com
	// as the same identity; login lookups compare case-insensitively too.
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return models.User{}, dErrors.New(dErrors.CodeMissingField, "email and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleVoter
	}
	if in.Role != models.RoleVoter && in.Role != models.RoleAdmin {
		return models.User{}, dErrors.New(dErrors.CodeValidation, "unknown role: "+in.Role)
	}

	hash, err := secrets.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Gender:       in.Gender,
		DateOfBirth:  in.DateOfBirth,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.User{}, dErrors.New(dErrors.CodeDuplicateIdentity, "user already exists")
		}
		s.logger.ErrorContext(ctx, "create user", "error", err)
		return models.User{}, dErrors.New(dErrors.CodeInternal, "could not create user")
	}

	s.emit(ctx, audit.Event{ActorID: user.ID, Action: audit.ActionUserCreated})
	return user, nil
}

// LoginResult bundles the issued token with the authenticated user.
type LoginResult struct {
	Token string
	User  models.User
}

// Login verifies credentials and issues an access token. Unknown user and bad
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password, role string) (LoginResult, error) {
	if role == "" {
		role = models.RoleVoter
	}
	user, err := s.users.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.emit(ctx, audit.Event{Action: audit.ActionLoginFailed, Detail: "unknown user"})
			return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		s.logger.ErrorContext(ctx, "find user for login", "error", err)
		return LoginResult{}, dErrors.New(dErrors.CodeInternal, "could not log in")
	}
	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			s.emit(ctx, audit.Event{ActorID: user.ID, Action: audit.ActionLoginFailed, Detail: "bad password"})
			return LoginResult{}, err
		}
		s.logger.ErrorContext(ctx, "verify password", "error", err)
		return LoginResult{}, dErrors.New(dErrors.CodeInternal, "could not log in")
	}

	token, _, err := s.tokens.Generate(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "sign token", "error", err)
		return LoginResult{}, dErrors.New(dErrors.CodeInternal, "could not log in")
	}

	s.emit(ctx, audit.Event{ActorID: user.ID, Action: audit.ActionLogin})
	return LoginResult{Token: token, User: user}, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.trl.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.ErrorContext(ctx, "revoke token", "error", err)
		return dErrors.New(dErrors.CodeInternal, "could not log out")
	}
	s.emit(ctx, audit.Event{ActorID: claims.UserID, Action: audit.ActionLogout})
	return nil
}

// Validate implements middleware.TokenValidator: signature, expiry, then the
// revocation list.
func (s *Service) Validate(ctx context.Context, tokenString string) (requestcontext.Identity, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return requestcontext.Identity{}, err
	}
	revoked, err := s.trl.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "check revocation", "error", err)
		return requestcontext.Identity{}, dErrors.New(dErrors.CodeInternal, "could not validate token")
	}
	if revoked {
		return requestcontext.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}
	return requestcontext.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		s.logger.ErrorContext(ctx, "find user", "error", err)
		return models.User{}, dErrors.New(dErrors.CodeInternal, "could not load user")
	}
	return user, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "emit audit event", "error", err, "action", event.Action)
	}
}
