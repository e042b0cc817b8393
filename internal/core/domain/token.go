package domain

import "time"

// TokenPair is an issued access/refresh session pair. The access token is
// never persisted; the refresh token is echoed into the user record as the
// single valid session token.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}
