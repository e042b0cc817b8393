package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

// defaultAvatarURL is used for OAuth-created accounts, which arrive without an
// avatar upload.
const defaultAvatarURL = "https://res.cloudinary.com/vidtube/image/upload/default_avatar.png"

// userService orchestrates the account operations: each request moves through
// validate, lookup, optional upload, mutate and project stages, short-circuiting
// to a typed error at any failing stage.
type userService struct {
	userRepo         portsrepo.UserRepositoryFacade
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	videoRepo        portsrepo.VideoRepositoryFacade
	uploader         portssvc.Uploader
	publisher        portssvc.Publisher
}

// NewUserService creates a new instance of userService.
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade,
	videoRepo portsrepo.VideoRepositoryFacade,
	uploader portssvc.Uploader,
	publisher portssvc.Publisher,
) portssvc.UserSvcFacade {
	return &userService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		videoRepo:        videoRepo,
		uploader:         uploader,
		publisher:        publisher,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// isBlank treats missing and whitespace-only values the same way: required
// fields must be present AND non-blank.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// sanitize strips the secret fields before a user leaves the service layer.
func sanitize(u *domain.User) *domain.User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

// removeStaged deletes locally staged upload files, best effort. It runs on
// every Register/update path, success included, so temp files never leak.
func removeStaged(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = os.Remove(p)
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	defer removeStaged(req.AvatarLocalPath, req.CoverImageLocalPath)

	if isBlank(req.FullName) || isBlank(req.Email) || isBlank(req.Username) || isBlank(req.Password) {
		return nil, apperrors.NewValidationError("All fields are required")
	}

	existing, err := s.userRepo.FindUserByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewInternalError("failed to check for existing user", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("User already exists with this email or username")
	}

	if req.AvatarLocalPath == "" {
		return nil, apperrors.NewValidationError("Avatar is required")
	}

	avatar, err := s.uploader.Upload(ctx, req.AvatarLocalPath)
	if err != nil || avatar == nil {
		return nil, apperrors.NewInternalError("Unable to upload avatar", err)
	}

	// Cover image is optional: an upload failure means proceeding without it.
	var coverImageURL string
	if cover, coverErr := s.uploader.Upload(ctx, req.CoverImageLocalPath); coverErr == nil && cover != nil {
		coverImageURL = cover.URL
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Username:      strings.ToLower(strings.TrimSpace(req.Username)),
		Email:         strings.TrimSpace(req.Email),
		FullName:      strings.TrimSpace(req.FullName),
		AvatarURL:     avatar.URL,
		CoverImageURL: coverImageURL,
		PasswordHash:  passwordHash,
		AuthProvider:  domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("User already exists with this email or username")
		}
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	created, err := s.userRepo.FindUserByID(ctx, user.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("Something went wrong while registering user", err)
	}

	s.publishUserRegistered(ctx, created)

	return sanitize(created), nil
}

// publishUserRegistered emits the registration event, best effort: a broker
// failure never fails the registration.
func (s *userService) publishUserRegistered(ctx context.Context, user *domain.User) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"event":    "user.registered",
		"userID":   user.UserID,
		"username": user.Username,
		"email":    user.Email,
	})
	if err != nil {
		return
	}
	if err := s.publisher.PublishMessage(ctx, []byte(user.UserID), payload); err != nil {
		slog.Warn("failed to publish user.registered event", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
	}
}

func (s *userService) Authenticate(ctx context.Context, username, email, password string) (*domain.User, error) {
	if isBlank(username) && isBlank(email) {
		return nil, apperrors.NewValidationError("username or email is required")
	}
	if isBlank(password) {
		return nil, apperrors.NewValidationError("password is required")
	}

	user, err := s.userRepo.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User does not exist")
		}
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid user credentials")
	}

	return user, nil
}

func (s *userService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User does not exist")
		}
		return apperrors.NewInternalError("failed to clear refresh token", err)
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User does not exist")
		}
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return sanitize(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if isBlank(oldPassword) || isBlank(newPassword) {
		return apperrors.NewValidationError("old and new passwords are required")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User does not exist")
		}
		return apperrors.NewInternalError("failed to get user", err)
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperrors.NewValidationError("Invalid old password")
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperrors.NewInternalError("failed to hash password", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return apperrors.NewInternalError("failed to update password", err)
	}
	return nil
}

func (s *userService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	if isBlank(fullName) || isBlank(email) {
		return nil, apperrors.NewValidationError("fullname and email are required")
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(fullName), strings.TrimSpace(email)); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			return nil, apperrors.NewConflictError("Email already in use")
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.NewNotFoundError("User does not exist")
		}
		return nil, apperrors.NewInternalError("failed to update account details", err)
	}

	updated, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch updated user", err)
	}
	return sanitize(updated), nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "Avatar", s.userRepo.UpdateAvatarURL)
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "Cover image", s.userRepo.UpdateCoverImageURL)
}

func (s *userService) updateImage(ctx context.Context, userID, localPath, kind string, setURL func(context.Context, string, string) error) (*domain.User, error) {
	defer removeStaged(localPath)

	if localPath == "" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s file is missing", kind))
	}

	result, err := s.uploader.Upload(ctx, localPath)
	if err != nil || result == nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("Unable to upload %s", strings.ToLower(kind)), err)
	}

	if err := setURL(ctx, userID, result.URL); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User does not exist")
		}
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to update %s", strings.ToLower(kind)), err)
	}

	updated, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch updated user", err)
	}
	return sanitize(updated), nil
}

func (s *userService) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	if isBlank(username) {
		return nil, apperrors.NewValidationError("username is missing")
	}

	profile, err := s.subscriptionRepo.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Channel does not exist")
		}
		return nil, apperrors.NewInternalError("failed to fetch channel profile", err)
	}
	return profile, nil
}

func (s *userService) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error) {
	// An unknown user or empty history is an empty sequence, never an error.
	entries, err := s.userRepo.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch watch history", err)
	}
	if entries == nil {
		entries = []domain.WatchHistoryEntry{}
	}
	return entries, nil
}

func (s *userService) RecordWatch(ctx context.Context, userID, videoID string) error {
	if _, err := s.videoRepo.FindVideoByID(ctx, videoID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("Video does not exist")
		}
		return apperrors.NewInternalError("failed to look up video", err)
	}
	if err := s.userRepo.AddWatchEntry(ctx, userID, videoID); err != nil {
		return apperrors.NewInternalError("failed to record watch entry", err)
	}
	return nil
}

func (s *userService) Subscribe(ctx context.Context, subscriberID, channelID string) error {
	if subscriberID == channelID {
		return apperrors.NewValidationError("cannot subscribe to your own channel")
	}
	if _, err := s.userRepo.FindUserByID(ctx, channelID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("Channel does not exist")
		}
		return apperrors.NewInternalError("failed to look up channel", err)
	}
	if err := s.subscriptionRepo.Subscribe(ctx, subscriberID, channelID); err != nil {
		return apperrors.NewInternalError("failed to subscribe", err)
	}
	return nil
}

func (s *userService) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	if err := s.subscriptionRepo.Unsubscribe(ctx, subscriberID, channelID); err != nil {
		return apperrors.NewInternalError("failed to unsubscribe", err)
	}
	return nil
}

// CreateOAuthUser finds or creates an account for a validated external
// identity. Existing provider identities and existing emails are reused;
// otherwise a new account is created with a derived username.
func (s *userService) CreateOAuthUser(ctx context.Context, name, email, authProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	if !emailVerified {
		return nil, apperrors.NewUnauthorizedError("email not verified by provider")
	}

	user, err := s.userRepo.FindUserByProviderDetails(ctx, authProvider, providerUserID)
	if err == nil {
		return sanitize(user), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewInternalError("failed to look up OAuth user", err)
	}

	user, err = s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return sanitize(user), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewInternalError("failed to look up user by email", err)
	}

	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to derive username", err)
	}
	localPart, _, _ := strings.Cut(email, "@")

	now := time.Now()
	newUser := domain.User{
		UserID:         uuid.NewString(),
		Username:       strings.ToLower(localPart) + "_" + suffix,
		Email:          email,
		FullName:       name,
		AvatarURL:      defaultAvatarURL,
		AuthProvider:   domain.AuthProvider(authProvider),
		ProviderUserID: providerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, apperrors.NewInternalError("failed to create OAuth user", err)
	}

	created, err := s.userRepo.FindUserByID(ctx, newUser.UserID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch created user", err)
	}

	s.publishUserRegistered(ctx, created)

	return sanitize(created), nil
}
