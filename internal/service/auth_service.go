package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resolvenow/complaint-service/internal/auth"
	"github.com/resolvenow/complaint-service/internal/config"
	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/repository"
	apperrors "github.com/resolvenow/complaint-service/pkg/util/errorutil"
)

// AuthResult is returned by the login and registration flows.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService owns accounts and bearer tokens.
type AuthService struct {
	users       repository.UserRepository
	revocations auth.RevocationStore
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
	now         func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// NewAuthService builds the service. Revocations default to process memory.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NewMemoryRevocationStore()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		revocations: revocations,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the time source for registration timestamps and token expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	s.tokenMgr = s.tokenMgr.WithClock(now)
	return s
}

// Register creates a user-role account and signs it in.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	user, err := s.CreateAccount(ctx, fullName, email, password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAccount stores a new account with the given role. Self-registration always
// goes through Register; other roles are only created by seeding.
func (s *AuthService) CreateAccount(ctx context.Context, fullName, email, password string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, apperrors.NewEmailExists(email)
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Authenticate checks credentials by exact email match.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return s.issue(user)
}

// ResolveToken maps a bearer token to its user, reporting why resolution failed.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewTokenError(err)
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if revoked {
		return nil, apperrors.NewRevokedToken()
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewTokenError(domain.ErrInvalidToken)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ValidateToken resolves a token to its user. Any failure yields (nil, false).
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.User, bool) {
	user, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, false
	}
	return user, true
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return apperrors.NewTokenError(err)
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("token revoked", zap.String("user_id", claims.UserID))
	return nil
}

// ListUsers returns every account in registration order.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// ListAgents returns accounts holding the agent role.
func (s *AuthService) ListAgents(ctx context.Context) ([]domain.User, error) {
	agents, err := s.users.ListByRole(ctx, domain.RoleAgent)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return agents, nil
}

// GetUser fetches an account by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
