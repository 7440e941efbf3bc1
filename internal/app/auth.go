package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"
	"motoauto-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// DefaultSessionTTL is used when AuthServiceParams.SessionTTL is zero
const DefaultSessionTTL = 7 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements sign-up, sign-in and session resolution
type AuthService struct {
	users      outbound.UserRepository
	sessions   outbound.SessionStore
	sessionTTL time.Duration
	hashCost   int
	logger     zerolog.Logger
}

type AuthServiceParams struct {
	Users      outbound.UserRepository
	Sessions   outbound.SessionStore
	SessionTTL time.Duration
	// HashCost defaults to bcrypt.DefaultCost
	HashCost int
	Logger   zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(params AuthServiceParams) *AuthService {
	service := &AuthService{
		users:      params.Users,
		sessions:   params.Sessions,
		sessionTTL: params.SessionTTL,
		hashCost:   params.HashCost,
		logger:     params.Logger.With().Str("component", "auth_service").Logger(),
	}
	if service.sessionTTL <= 0 {
		service.sessionTTL = DefaultSessionTTL
	}
	if service.hashCost == 0 {
		service.hashCost = bcrypt.DefaultCost
	}
	return service
}

// SignUp registers a user and starts a session
func (service *AuthService) SignUp(ctx context.Context, req inbound.SignUpRequest) (*shared.Session, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	switch {
	case !emailPattern.MatchString(email):
		return nil, shared.ErrInvalidEmail
	case len(req.Password) < MinPasswordLength:
		return nil, shared.ErrPasswordTooShort
	case name == "":
		return nil, shared.ErrNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), service.hashCost)
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &shared.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := service.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			service.logger.Warn().Str("email", email).Msg("Email already registered")
		} else {
			service.logger.Error().Err(err).Msg("Failed to create user")
		}
		return nil, err
	}

	service.logger.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return service.sessions.Create(ctx, user.ID, service.sessionTTL)
}

// SignIn checks credentials and starts a session
func (service *AuthService) SignIn(ctx context.Context, req inbound.SignInRequest) (*shared.Session, error) {
	user, err := service.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		service.logger.Warn().Str("user_id", user.ID.String()).Msg("Wrong password")
		return nil, shared.ErrInvalidCredentials
	}

	service.logger.Info().Str("user_id", user.ID.String()).Msg("User signed in")
	return service.sessions.Create(ctx, user.ID, service.sessionTTL)
}

// SignOut ends a session
func (service *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return service.sessions.Delete(ctx, token)
}

// Authenticate resolves the user behind a session token
func (service *AuthService) Authenticate(ctx context.Context, token string) (*shared.User, error) {
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}
	session, err := service.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	user, err := service.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
