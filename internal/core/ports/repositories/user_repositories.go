package repositories

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their lowercase username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsernameOrEmail retrieves a user matching either identifier.
	// Used by login and by the duplicate check during registration.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// FindUserByProviderDetails retrieves an OAuth user by provider identity.
	FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateProfile updates fullname and email together.
	UpdateProfile(ctx context.Context, userID, fullName, email string) error

	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// UpdateAvatarURL sets the avatar URL.
	UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error

	// UpdateCoverImageURL sets the cover image URL.
	UpdateCoverImageURL(ctx context.Context, userID, coverImageURL string) error

	// UpdateRefreshToken overwrites the stored refresh token. This is a
	// single-column write so it never re-triggers password hashing.
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error

	// ClearRefreshToken removes the stored refresh token (logout).
	ClearRefreshToken(ctx context.Context, userID string) error
}

// WatchHistoryRepository manages the ordered watch history of a user.
type WatchHistoryRepository interface {
	// AddWatchEntry appends a video to the user's watch history.
	// Duplicates are allowed; insertion order is viewing order.
	AddWatchEntry(ctx context.Context, userID, videoID string) error

	// GetWatchHistory returns the user's history joined with videos and a
	// trimmed owner profile. An unknown user or empty history yields an
	// empty slice, not an error.
	GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error)
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	WatchHistoryRepository
}
