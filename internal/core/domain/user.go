package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a platform account in the domain.
// PasswordHash and RefreshToken never leave the service layer; responses use
// the sanitized projection in dto.UserResponse.
type User struct {
	UserID        string `json:"userID"`
	Username      string `json:"username"` // unique, stored lowercase
	Email         string `json:"email"`    // unique
	FullName      string `json:"fullName"`
	AvatarURL     string `json:"avatarURL"`
	CoverImageURL string `json:"coverImageURL,omitempty"`
	PasswordHash  string `json:"-"`
	// RefreshToken is the single currently valid refresh token for this user,
	// or empty. Issuing a new one invalidates the prior session; logout clears it.
	RefreshToken string       `json:"-"`
	AuthProvider AuthProvider `json:"-"`
	// ProviderUserID is the external identity (e.g. Google "sub") for OAuth users.
	ProviderUserID string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// GoogleUserInfo mirrors the userinfo payload returned by Google OAuth.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
