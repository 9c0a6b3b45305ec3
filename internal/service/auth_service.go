package service

import (
	"context"
	"fmt"
	"time"

	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/mapper"
	"github.com/odo-atelier/budget-api/internal/repository"
	"go.uber.org/zap"
)

// AuthService manages the local side of sessions issued by the auth provider
type AuthService struct {
	userRepo    *repository.UserRepository
	revokedRepo *repository.RevokedTokenRepository
	logger      *zap.Logger
}

var _ auth.RevocationChecker = (*AuthService)(nil)

// NewAuthService creates a new AuthService instance
func NewAuthService(
	userRepo *repository.UserRepository,
	revokedRepo *repository.RevokedTokenRepository,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
		logger:      logger,
	}
}

// Me records the caller's profile and returns it
func (s *AuthService) Me(ctx context.Context) (*domain.AuthUserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	if !userCtx.IsSystem() {
		user := &domain.User{
			ID:          userCtx.UserID.String(),
			Email:       userCtx.Email,
			DisplayName: userCtx.DisplayName,
			LastSeenAt:  time.Now().UTC(),
		}
		if err := s.userRepo.Upsert(ctx, user); err != nil {
			// Profile bookkeeping must not block the session
			s.logger.Warn("failed to record user profile",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	dto := mapper.ToAuthUserDTO(userCtx)
	return &dto, nil
}

// SignOut revokes the caller's token until it expires
func (s *AuthService) SignOut(ctx context.Context) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}
	if userCtx.Token == "" {
		return fmt.Errorf("%w: no session token to revoke", ErrUnauthorized)
	}

	expiresAt := userCtx.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().UTC().Add(24 * time.Hour)
	}

	if err := s.revokedRepo.Create(ctx, &domain.RevokedToken{
		TokenHash: auth.HashToken(userCtx.Token),
		UserID:    userCtx.UserID,
		ExpiresAt: expiresAt.UTC(),
	}); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("user signed out", zap.String("user_id", userCtx.UserID.String()))
	return nil
}

// IsRevoked reports whether a token was signed out
func (s *AuthService) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.revokedRepo.Exists(ctx, auth.HashToken(token))
}

// PurgeExpired drops revocations of tokens that have expired on their own
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.revokedRepo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	return deleted, nil
}
