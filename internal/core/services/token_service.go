package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

// tokenService implements TokenSvcFacade. Access and refresh tokens are both
// HS256 JWTs signed with distinct secrets and expirations; the refresh token
// is persisted verbatim on the user record so rotation can require exact
// string equality against the stored value.
type tokenService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// IssueTokenPair derives both tokens from the user's identity and persists the
// refresh token, superseding any prior session. The persistence step is a
// single-column update so it never re-triggers password hashing.
func (s *tokenService) IssueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	now := time.Now()
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiry, s.cfg.TokenIssuer)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateJWT(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiry, s.cfg.TokenIssuer)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate refresh token", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken); err != nil {
		return nil, apperrors.NewInternalError("failed to persist refresh token", err)
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.cfg.AccessTokenExpiry),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTokenExpiry),
	}, nil
}

// VerifyRefreshToken validates signature and expiration against the refresh
// secret.
func (s *tokenService) VerifyRefreshToken(ctx context.Context, refreshToken string) (*jwt.RegisteredClaims, error) {
	claims, err := utils.ParseAndValidateJWT(refreshToken, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, apperrors.NewTokenError("invalid refresh token", err)
	}
	if claims.Subject == "" {
		return nil, apperrors.NewTokenError("invalid refresh token", jwt.ErrTokenInvalidSubject)
	}
	return claims, nil
}

// Rotate verifies oldToken, loads the referenced user and requires the stored
// refresh token to equal oldToken exactly. The equality check doubles as a
// compare-and-swap guard: a concurrent rotation leaves a different stored
// value, so reuse of the superseded token is rejected without locking.
func (s *tokenService) Rotate(ctx context.Context, oldToken string) (*domain.User, *domain.TokenPair, error) {
	claims, err := s.VerifyRefreshToken(ctx, oldToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewTokenError("refresh token user not found", err)
		}
		return nil, nil, apperrors.NewInternalError("failed to load user for token rotation", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != oldToken {
		return nil, nil, apperrors.NewTokenError("refresh token is expired or already used", nil)
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}
