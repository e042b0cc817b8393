package services

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"github.com/vidtube/vidtube_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// AccountSvc defines the account mutation operations.
type AccountSvc interface {
	// Register creates a new user from the registration request, uploading the
	// staged avatar (required) and cover image (optional) to the media host.
	// Staged local files are removed before Register returns, on every path.
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// ChangePassword verifies the old password and overwrites it with the new
	// one, re-hashing on write.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	// UpdateAccount updates fullname and email together and returns the
	// sanitized re-fetched user.
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*domain.User, error)

	// UpdateAvatar uploads the staged file and sets the avatar URL.
	UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error)

	// UpdateCoverImage uploads the staged file and sets the cover image URL.
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error)
}

// UserAuthSvc defines operations for credential authentication.
type UserAuthSvc interface {
	// Authenticate looks the user up by username or email and verifies the
	// password. Unknown identity yields a 404 error, bad password a 401.
	Authenticate(ctx context.Context, username, email, password string) (*domain.User, error)

	// Logout clears the stored refresh token, ending the user's session.
	Logout(ctx context.Context, userID string) error

	// CreateOAuthUser finds or creates a user from a validated OAuth identity.
	CreateOAuthUser(ctx context.Context, name, email, authProvider, providerUserID string, emailVerified bool) (*domain.User, error)
}

// ChannelSvc exposes the derived channel and watch-history queries.
type ChannelSvc interface {
	// GetChannelProfile returns the aggregated channel view for a username,
	// with isSubscribed computed relative to viewerID.
	GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)

	// GetWatchHistory returns the user's watch history in viewing order.
	// Absent user or empty history yields an empty slice.
	GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error)

	// RecordWatch appends a video to the user's watch history.
	RecordWatch(ctx context.Context, userID, videoID string) error

	// Subscribe makes the user follow a channel.
	Subscribe(ctx context.Context, subscriberID, channelID string) error

	// Unsubscribe removes the user's subscription to a channel.
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	AccountSvc
	UserAuthSvc
	ChannelSvc
}
