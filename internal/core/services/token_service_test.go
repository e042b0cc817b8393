package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/core/services"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

type TokenServiceTestSuite struct {
	suite.Suite
	cfg          *config.Config
	mockUserRepo *MockUserRepository
	service      portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		AccessTokenSecret:  "test-access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "test-refresh-secret",
		RefreshTokenExpiry: 240 * time.Hour,
		TokenIssuer:        "vidtube-backend-test",
	}
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewTokenService(suite.cfg, suite.mockUserRepo)
}

func (suite *TokenServiceTestSuite) TestIssueTokenPair_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString()}

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, user.UserID, mock.AnythingOfType("string")).
		Return(nil).Once()

	pair, err := suite.service.IssueTokenPair(ctx, user)

	suite.Require().NoError(err)
	suite.Require().NotNil(pair)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEmpty(pair.RefreshToken)
	suite.NotEqual(pair.AccessToken, pair.RefreshToken)

	// Each token validates only against its own secret.
	accessClaims, err := utils.ParseAndValidateJWT(pair.AccessToken, suite.cfg.AccessTokenSecret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, accessClaims.Subject)

	refreshClaims, err := utils.ParseAndValidateJWT(pair.RefreshToken, suite.cfg.RefreshTokenSecret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, refreshClaims.Subject)

	_, err = utils.ParseAndValidateJWT(pair.AccessToken, suite.cfg.RefreshTokenSecret)
	suite.Error(err)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestIssueTokenPair_PersistFailure() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString()}

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, user.UserID, mock.AnythingOfType("string")).
		Return(apperrors.ErrNotFound).Once()

	pair, err := suite.service.IssueTokenPair(ctx, user)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.Equal(http.StatusInternalServerError, apperrors.StatusCode(err))
}

func (suite *TokenServiceTestSuite) TestVerifyRefreshToken_WrongSecret() {
	ctx := context.Background()

	// Signed with the access secret, presented as a refresh token.
	token, err := utils.GenerateJWT(uuid.NewString(), suite.cfg.AccessTokenSecret, time.Minute, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)

	claims, err := suite.service.VerifyRefreshToken(ctx, token)

	suite.Require().Error(err)
	suite.Nil(claims)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *TokenServiceTestSuite) TestVerifyRefreshToken_Expired() {
	ctx := context.Background()

	token, err := utils.GenerateJWT(uuid.NewString(), suite.cfg.RefreshTokenSecret, -time.Minute, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)

	claims, err := suite.service.VerifyRefreshToken(ctx, token)

	suite.Require().Error(err)
	suite.Nil(claims)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *TokenServiceTestSuite) TestRotate_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	oldToken, err := utils.GenerateJWT(userID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)

	user := &domain.User{UserID: userID, RefreshToken: oldToken}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateRefreshToken", ctx, userID, mock.AnythingOfType("string")).
		Return(nil).Once()

	rotatedUser, pair, err := suite.service.Rotate(ctx, oldToken)

	suite.Require().NoError(err)
	suite.Equal(userID, rotatedUser.UserID)
	suite.Require().NotNil(pair)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEqual(oldToken, pair.RefreshToken)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestRotate_SupersededToken() {
	ctx := context.Background()
	userID := uuid.NewString()

	oldToken, err := utils.GenerateJWT(userID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)
	newerToken, err := utils.GenerateJWT(userID, suite.cfg.RefreshTokenSecret, 2*time.Hour, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)

	// A later rotation stored a different token; the old one must be rejected.
	user := &domain.User{UserID: userID, RefreshToken: newerToken}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	rotatedUser, pair, err := suite.service.Rotate(ctx, oldToken)

	suite.Require().Error(err)
	suite.Nil(rotatedUser)
	suite.Nil(pair)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TokenServiceTestSuite) TestRotate_AfterLogout() {
	ctx := context.Background()
	userID := uuid.NewString()

	oldToken, err := utils.GenerateJWT(userID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)

	// Logout cleared the stored token.
	user := &domain.User{UserID: userID, RefreshToken: ""}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	_, pair, err := suite.service.Rotate(ctx, oldToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *TokenServiceTestSuite) TestRotate_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	oldToken, err := utils.GenerateJWT(userID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.TokenIssuer)
	suite.Require().NoError(err)

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	_, pair, err := suite.service.Rotate(ctx, oldToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func (suite *TokenServiceTestSuite) TestRotate_GarbageToken() {
	ctx := context.Background()

	_, pair, err := suite.service.Rotate(ctx, "not-a-jwt")

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.Equal(http.StatusBadRequest, apperrors.StatusCode(err))
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
