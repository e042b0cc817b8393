package services_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/core/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockSubRepo   *MockSubscriptionRepository
	mockVideoRepo *MockVideoRepository
	mockUploader  *MockUploader
	mockPublisher *MockPublisher
	service       portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSubRepo = new(MockSubscriptionRepository)
	suite.mockVideoRepo = new(MockVideoRepository)
	suite.mockUploader = new(MockUploader)
	suite.mockPublisher = new(MockPublisher)
	suite.service = services.NewUserService(
		suite.mockUserRepo,
		suite.mockSubRepo,
		suite.mockVideoRepo,
		suite.mockUploader,
		suite.mockPublisher,
	)
}

// stageTempFile creates a throwaway staged upload file for registration tests.
func (suite *UserServiceTestSuite) stageTempFile(name string) string {
	path := filepath.Join(suite.T().TempDir(), name)
	suite.Require().NoError(os.WriteFile(path, []byte("fake image bytes"), 0o644))
	return path
}

// --- Register ---

func (suite *UserServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	avatarPath := suite.stageTempFile("avatar.png")
	coverPath := suite.stageTempFile("cover.png")

	req := dto.RegisterUserRequest{
		FullName:            "Test User",
		Email:               "test@example.com",
		Username:            "TestUser",
		Password:            "password123",
		AvatarLocalPath:     avatarPath,
		CoverImageLocalPath: coverPath,
	}

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUploader.On("Upload", ctx, avatarPath).
		Return(&domain.UploadResult{URL: "https://cdn.example.com/avatar.png", PublicID: "avatar"}, nil).Once()
	suite.mockUploader.On("Upload", ctx, coverPath).
		Return(&domain.UploadResult{URL: "https://cdn.example.com/cover.png", PublicID: "cover"}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "testuser" &&
			user.Email == req.Email &&
			user.AvatarURL == "https://cdn.example.com/avatar.png" &&
			user.CoverImageURL == "https://cdn.example.com/cover.png" &&
			user.PasswordHash != "" && user.PasswordHash != req.Password &&
			user.AuthProvider == domain.ProviderLocal
	})).Return(nil).Once()

	created := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "testuser",
		Email:        req.Email,
		FullName:     req.FullName,
		AvatarURL:    "https://cdn.example.com/avatar.png",
		PasswordHash: "some-hash",
		RefreshToken: "some-token",
	}
	suite.mockUserRepo.On("FindUserByID", ctx, mock.AnythingOfType("string")).
		Return(created, nil).Once()
	suite.mockPublisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).
		Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("testuser", user.Username)
	suite.Empty(user.PasswordHash)
	suite.Empty(user.RefreshToken)

	// Staged files are cleaned up on the success path too.
	_, avatarErr := os.Stat(avatarPath)
	suite.True(os.IsNotExist(avatarErr))
	_, coverErr := os.Stat(coverPath)
	suite.True(os.IsNotExist(coverErr))

	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockUploader.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_BlankFields() {
	ctx := context.Background()

	req := dto.RegisterUserRequest{
		FullName: "Test User",
		Email:    "   ",
		Username: "testuser",
		Password: "password123",
	}

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateUser() {
	ctx := context.Background()
	avatarPath := suite.stageTempFile("avatar.png")

	req := dto.RegisterUserRequest{
		FullName:        "Test User",
		Email:           "taken@example.com",
		Username:        "taken",
		Password:        "password123",
		AvatarLocalPath: avatarPath,
	}

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).
		Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusConflict, apperrors.StatusCode(err))

	// The staged file must be cleaned up even when registration is rejected.
	_, statErr := os.Stat(avatarPath)
	suite.True(os.IsNotExist(statErr))
}

func (suite *UserServiceTestSuite) TestRegister_MissingAvatar() {
	ctx := context.Background()

	req := dto.RegisterUserRequest{
		FullName: "Test User",
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password123",
	}

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).
		Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestRegister_AvatarUploadFails() {
	ctx := context.Background()
	avatarPath := suite.stageTempFile("avatar.png")

	req := dto.RegisterUserRequest{
		FullName:        "Test User",
		Email:           "test@example.com",
		Username:        "testuser",
		Password:        "password123",
		AvatarLocalPath: avatarPath,
	}

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUploader.On("Upload", ctx, avatarPath).
		Return(nil, assert.AnError).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusInternalServerError, apperrors.StatusCode(err))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

// --- Authenticate ---

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	password := "password123"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	stored := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "testuser",
		PasswordHash: hash,
	}
	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, "testuser", "").
		Return(stored, nil).Once()

	user, err := suite.service.Authenticate(ctx, "testuser", "", password)

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, "ghost", "").
		Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Authenticate(ctx, "ghost", "", "password123")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusNotFound, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Username: "testuser", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, "testuser", "").
		Return(stored, nil).Once()

	user, err := suite.service.Authenticate(ctx, "testuser", "", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusUnauthorized, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestAuthenticate_MissingIdentifier() {
	ctx := context.Background()

	user, err := suite.service.Authenticate(ctx, "", "", "password123")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

// --- Logout / ChangePassword ---

func (suite *UserServiceTestSuite) TestLogout_ClearsRefreshToken() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("ClearRefreshToken", ctx, userID).Return(nil).Once()

	suite.Require().NoError(suite.service.Logout(ctx, userID))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongOldPassword() {
	ctx := context.Background()
	userID := uuid.NewString()
	hash, err := utils.HashPassword("actual-old-password")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: userID, PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()

	err = suite.service.ChangePassword(ctx, userID, "wrong-old-password", "new-password")

	suite.Require().Error(err)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	hash, err := utils.HashPassword("old-password")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: userID, PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()
	suite.mockUserRepo.On("UpdatePassword", ctx, userID, mock.MatchedBy(func(newHash string) bool {
		return newHash != "" && newHash != "new-password"
	})).Return(nil).Once()

	suite.Require().NoError(suite.service.ChangePassword(ctx, userID, "old-password", "new-password"))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- UpdateAccount ---

func (suite *UserServiceTestSuite) TestUpdateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("UpdateProfile", ctx, userID, "New Name", "new@example.com").
		Return(nil).Once()
	updated := &domain.User{UserID: userID, FullName: "New Name", Email: "new@example.com", PasswordHash: "hash"}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(updated, nil).Once()

	user, err := suite.service.UpdateAccount(ctx, userID, "New Name", "new@example.com")

	suite.Require().NoError(err)
	suite.Equal("New Name", user.FullName)
	suite.Empty(user.PasswordHash)
}

func (suite *UserServiceTestSuite) TestUpdateAccount_DuplicateEmail() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("UpdateProfile", ctx, userID, "New Name", "taken@example.com").
		Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.UpdateAccount(ctx, userID, "New Name", "taken@example.com")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusConflict, apperrors.StatusCode(err))
}

// --- Avatar / Cover image ---

func (suite *UserServiceTestSuite) TestUpdateAvatar_MissingFile() {
	ctx := context.Background()

	user, err := suite.service.UpdateAvatar(ctx, uuid.NewString(), "")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestUpdateAvatar_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	avatarPath := suite.stageTempFile("avatar.png")

	suite.mockUploader.On("Upload", ctx, avatarPath).
		Return(&domain.UploadResult{URL: "https://cdn.example.com/new-avatar.png"}, nil).Once()
	suite.mockUserRepo.On("UpdateAvatarURL", ctx, userID, "https://cdn.example.com/new-avatar.png").
		Return(nil).Once()
	updated := &domain.User{UserID: userID, AvatarURL: "https://cdn.example.com/new-avatar.png"}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(updated, nil).Once()

	user, err := suite.service.UpdateAvatar(ctx, userID, avatarPath)

	suite.Require().NoError(err)
	suite.Equal("https://cdn.example.com/new-avatar.png", user.AvatarURL)

	_, statErr := os.Stat(avatarPath)
	suite.True(os.IsNotExist(statErr))
}

// --- Channel profile ---

func (suite *UserServiceTestSuite) TestGetChannelProfile_Success() {
	ctx := context.Background()
	viewerID := uuid.NewString()

	profile := &domain.ChannelProfile{
		UserID:                    uuid.NewString(),
		Username:                  "creator",
		SubscribersCount:          3,
		ChannelsSubscribedToCount: 2,
		IsSubscribed:              true,
	}
	suite.mockSubRepo.On("GetChannelProfile", ctx, "creator", viewerID).
		Return(profile, nil).Once()

	got, err := suite.service.GetChannelProfile(ctx, "creator", viewerID)

	suite.Require().NoError(err)
	suite.Equal(int64(3), got.SubscribersCount)
	suite.Equal(int64(2), got.ChannelsSubscribedToCount)
	suite.True(got.IsSubscribed)
}

func (suite *UserServiceTestSuite) TestGetChannelProfile_NotFound() {
	ctx := context.Background()

	suite.mockSubRepo.On("GetChannelProfile", ctx, "ghost", mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.GetChannelProfile(ctx, "ghost", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(got)
	suite.Equal(http.StatusNotFound, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestGetChannelProfile_BlankUsername() {
	ctx := context.Background()

	got, err := suite.service.GetChannelProfile(ctx, "  ", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(got)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

// --- Watch history ---

func (suite *UserServiceTestSuite) TestGetWatchHistory_EmptyIsNotAnError() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("GetWatchHistory", ctx, userID).
		Return(nil, nil).Once()

	entries, err := suite.service.GetWatchHistory(ctx, userID)

	suite.Require().NoError(err)
	suite.NotNil(entries)
	suite.Empty(entries)
}

func (suite *UserServiceTestSuite) TestRecordWatch_UnknownVideo() {
	ctx := context.Background()
	userID := uuid.NewString()
	videoID := uuid.NewString()

	suite.mockVideoRepo.On("FindVideoByID", ctx, videoID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RecordWatch(ctx, userID, videoID)

	suite.Require().Error(err)
	suite.Equal(http.StatusNotFound, apperrors.StatusCode(err))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "AddWatchEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRecordWatch_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	videoID := uuid.NewString()

	suite.mockVideoRepo.On("FindVideoByID", ctx, videoID).
		Return(&domain.Video{VideoID: videoID}, nil).Once()
	suite.mockUserRepo.On("AddWatchEntry", ctx, userID, videoID).Return(nil).Once()

	suite.Require().NoError(suite.service.RecordWatch(ctx, userID, videoID))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Subscriptions ---

func (suite *UserServiceTestSuite) TestSubscribe_OwnChannel() {
	ctx := context.Background()
	userID := uuid.NewString()

	err := suite.service.Subscribe(ctx, userID, userID)

	suite.Require().Error(err)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestSubscribe_Success() {
	ctx := context.Background()
	subscriberID := uuid.NewString()
	channelID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, channelID).
		Return(&domain.User{UserID: channelID}, nil).Once()
	suite.mockSubRepo.On("Subscribe", ctx, subscriberID, channelID).Return(nil).Once()

	suite.Require().NoError(suite.service.Subscribe(ctx, subscriberID, channelID))
	suite.mockSubRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestSubscribe_UnknownChannel() {
	ctx := context.Background()

	channelID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", ctx, channelID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.Subscribe(ctx, uuid.NewString(), channelID)

	suite.Require().Error(err)
	suite.Equal(http.StatusNotFound, apperrors.StatusCode(err))
}

// --- OAuth users ---

func (suite *UserServiceTestSuite) TestCreateOAuthUser_ExistingProviderIdentity() {
	ctx := context.Background()
	existing := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "oauth@example.com",
		AuthProvider: domain.ProviderGoogle,
		PasswordHash: "should-be-stripped",
	}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, string(domain.ProviderGoogle), "google-sub").
		Return(existing, nil).Once()

	user, err := suite.service.CreateOAuthUser(ctx, "OAuth User", "oauth@example.com", string(domain.ProviderGoogle), "google-sub", true)

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
	suite.Empty(user.PasswordHash)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateOAuthUser_UnverifiedEmail() {
	ctx := context.Background()

	user, err := suite.service.CreateOAuthUser(ctx, "OAuth User", "oauth@example.com", string(domain.ProviderGoogle), "google-sub", false)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.Equal(http.StatusUnauthorized, apperrors.StatusCode(err))
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
