package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/auth"
	"github.com/hydrotek/service-desk/internal/config"
	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/repository"
	"github.com/hydrotek/service-desk/internal/session"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// AuthService is the in-process identity provider: account registration,
// credential verification and token issuance.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	sessions *session.Registry
	cost     int
	logger   *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, sessions *session.Registry, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		sessions: sessions,
		cost:     cfg.BcryptCost,
		logger:   logger,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, errorutil.NewValidationError("email and password required", nil)
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errorutil.NewConflict("account already exists", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errorutil.MapError(err)
	}
	s.logger.Info("account registered", zap.String("email", email))
	return user, nil
}

// LoginResult carries the issued token and identity.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

// Login verifies credentials, issues a token and opens the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotAuthenticated("invalid credentials")
		}
		return nil, errorutil.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errorutil.NewNotAuthenticated("invalid credentials")
	}

	identity := domain.Identity{Email: user.Email, Role: user.Role}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, identity)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	if s.sessions != nil {
		s.sessions.SignIn(identity)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Identity: identity}, nil
}

// Logout closes the session and notifies subscribers.
func (s *AuthService) Logout(email string) {
	if s.sessions != nil {
		s.sessions.SignOut(email)
	}
}
