package services

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade defines the token issuance and rotation service.
type TokenSvcFacade interface {
	// IssueTokenPair derives an access and a refresh token from the user's
	// identity and persists the refresh token on the user record, superseding
	// any prior session.
	IssueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error)

	// VerifyRefreshToken validates signature and expiry of a refresh token and
	// returns its claims.
	VerifyRefreshToken(ctx context.Context, refreshToken string) (*jwt.RegisteredClaims, error)

	// Rotate verifies oldToken, requires it to equal the user's stored refresh
	// token exactly, and issues a fresh pair. A stale or rotated-away token is
	// rejected by the equality check.
	Rotate(ctx context.Context, oldToken string) (*domain.User, *domain.TokenPair, error)
}

// GoogleOAuthSvcFacade defines the Google OAuth operations.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates a CSRF token for the OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// GetUserInfo fetches user information from Google with the access token.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
	// ValidateGoogleIDToken validates a Google ID token and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
