package dto

import "github.com/vidtube/vidtube_backend/internal/core/domain"

// LoginRequest carries credentials. Either username or email must be present.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the sanitized user together with both tokens. The
// tokens are additionally set as HTTP-only cookies.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// RefreshTokenRequest carries a refresh token in the body as an alternative to
// the cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenResponse returns the rotated token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ToLoginResponse assembles the login payload from the user and issued pair.
func ToLoginResponse(user *domain.User, pair *domain.TokenPair) LoginResponse {
	return LoginResponse{
		User:         ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
