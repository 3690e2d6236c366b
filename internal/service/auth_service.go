package service

import (
	"context"
	"fmt"

	"neon-market/internal/auth"
	"neon-market/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo  repository.UserRepository
	roleCache *auth.RoleCache
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, roleCache *auth.RoleCache, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		roleCache: roleCache,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Logout revokes the session token and drops the cached role so a later
// session starts from a fresh admin lookup.
func (s *authService) Logout(ctx context.Context, token string, userID uuid.UUID) error {
	if err := s.userRepo.DeleteSession(ctx, token); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to revoke session")
		return fmt.Errorf("failed to log out: %w", err)
	}

	s.roleCache.Invalidate(userID)

	s.logger.Info().Str("user_id", userID.String()).Msg("session revoked")
	return nil
}
