package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/safety-roster/internal/auth"
	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/domain"
	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

const coordinatorSubject = "coordination-desk"

// AuthService exchanges the coordinator secret for a bearer token.
type AuthService struct {
	authenticator auth.Authenticator
	tokenMgr      *auth.TokenManager
	logger        *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Authenticator auth.Authenticator
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		authenticator: deps.Authenticator,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:        logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// LoginCoordinator issues a coordinator token when the secret is accepted.
func (s *AuthService) LoginCoordinator(ctx context.Context, secret string) (domain.Token, error) {
	if s.authenticator == nil {
		return domain.Token{}, apperrors.NewUnauthorized("coordinator access is not configured")
	}
	if err := s.authenticator.Authenticate(ctx, secret); err != nil {
		s.logger.Info("coordinator login rejected")
		return domain.Token{}, apperrors.NewUnauthorized("invalid password")
	}
	token, err := s.tokenMgr.GenerateToken(coordinatorSubject, domain.RoleCoordinator)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}
