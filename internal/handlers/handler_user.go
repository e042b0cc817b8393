package handlers

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// userHandler handles HTTP requests for accounts, sessions and the derived
// channel queries.
type userHandler struct {
	cfg          *config.Config
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(cfg *config.Config, us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *userHandler {
	return &userHandler{
		cfg:          cfg,
		userService:  us,
		tokenService: ts,
	}
}

// registerPublicUserRoutes registers the user routes that require no session.
func registerPublicUserRoutes(rg *gin.RouterGroup, h *userHandler, rateLimited gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", rateLimited, h.registerUser)
		users.POST("/login", rateLimited, h.loginUser)
		users.POST("/refresh-access-token", h.refreshAccessToken)
	}
}

// registerUserRoutes registers the session-bound user routes.
func registerUserRoutes(rg *gin.RouterGroup, h *userHandler) {
	users := rg.Group("/users")
	{
		users.POST("/logout", h.logoutUser)
		users.POST("/change-password", h.changePassword)
		users.GET("/current-user", h.getCurrentUser)
		users.PATCH("/update-account", h.updateAccount)
		users.PATCH("/avatar", h.updateAvatar)
		users.PATCH("/cover-image", h.updateCoverImage)
		users.GET("/channel/:username", h.getChannelProfile)
		users.GET("/watch-history", h.getWatchHistory)
		users.POST("/watch-history/:videoID", h.recordWatch)
	}
}

// stageUpload writes one multipart file into the local staging directory and
// returns its path. A missing file field returns "" with no error.
func (h *userHandler) stageUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}
	return h.stageFile(c, file)
}

func (h *userHandler) stageFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > h.cfg.UploadMaxBytes {
		return "", apperrors.NewValidationError("Uploaded file is too large")
	}
	if err := os.MkdirAll(h.cfg.UploadTempDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(h.cfg.UploadTempDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// registerUser godoc
// @Summary Register a new user
// @Description Creates a user from multipart form fields with a required avatar and optional cover image
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Param   fullname formData string true "Full name"
// @Param   email formData string true "Email"
// @Param   username formData string true "Username"
// @Param   password formData string true "Password"
// @Param   avatar formData file true "Avatar image"
// @Param   coverImage formData file false "Cover image"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Missing or blank fields"
// @Failure 409 {object} dto.APIError "Username or email already taken"
// @Failure 500 {object} dto.APIError "Upload or persistence failure"
// @Router /users/register [post]
func (h *userHandler) registerUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind registration form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "All fields are required", err.Error()))
		return
	}

	avatarPath, err := h.stageUpload(c, "avatar")
	if err != nil {
		respondError(c, logger, err, "Failed to stage avatar upload")
		return
	}
	coverPath, err := h.stageUpload(c, "coverImage")
	if err != nil {
		// Cover image is optional; a staging failure just drops it.
		logger.Warn("Failed to stage cover image upload", slog.String("error", err.Error()))
		coverPath = ""
	}
	req.AvatarLocalPath = avatarPath
	req.CoverImageLocalPath = coverPath

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Something went wrong while registering user")
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	respondSuccess(c, http.StatusCreated, dto.ToUserResponse(user), "User registered successfully")
}

// loginUser godoc
// @Summary Log in with username or email
// @Description Verifies credentials and issues an access and refresh token pair
// @Tags users
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Neither username nor email given"
// @Failure 401 {object} dto.APIError "Wrong password"
// @Failure 404 {object} dto.APIError "Unknown user"
// @Router /users/login [post]
func (h *userHandler) loginUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "Invalid request format", err.Error()))
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, logger, err, "Failed to log in")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondError(c, logger, err, "Failed to issue tokens")
		return
	}

	user.PasswordHash = ""
	user.RefreshToken = ""

	setTokenCookies(c, h.cfg, pair)
	logger.Info("User logged in", slog.String("user_id", user.UserID))
	respondSuccess(c, http.StatusOK, dto.ToLoginResponse(user, pair), "User logged in successfully")
}

// refreshAccessToken godoc
// @Summary Rotate the refresh token
// @Description Exchanges a valid refresh token (cookie or body) for a fresh token pair
// @Tags users
// @Accept  json
// @Produce  json
// @Param   token body dto.RefreshTokenRequest false "Refresh token when not sent as cookie"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Missing, invalid, expired or superseded token"
// @Router /users/refresh-access-token [post]
func (h *userHandler) refreshAccessToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	incoming, _ := c.Cookie(h.cfg.RefreshTokenCookieName)
	if incoming == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		logger.Warn("Refresh token missing from cookie and body")
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "Refresh token is required"))
		return
	}

	user, pair, err := h.tokenService.Rotate(c.Request.Context(), incoming)
	if err != nil {
		// All rotation failures surface uniformly; the precise reason is
		// only visible in the log.
		logger.Warn("Refresh token rotation rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "Invalid refresh token"))
		return
	}

	setTokenCookies(c, h.cfg, pair)
	logger.Info("Refresh token rotated", slog.String("user_id", user.UserID))
	respondSuccess(c, http.StatusOK, dto.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// logoutUser godoc
// @Summary Log out
// @Description Clears the stored refresh token and expires both auth cookies
// @Tags users
// @Produce  json
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIError "No valid session"
// @Security BearerAuth
// @Router /users/logout [post]
func (h *userHandler) logoutUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	if err := h.userService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, logger, err, "Failed to log out")
		return
	}

	clearTokenCookies(c, h.cfg)
	logger.Info("User logged out", slog.String("user_id", userID))
	respondSuccess(c, http.StatusOK, nil, "User logged out successfully")
}

// changePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept  json
// @Produce  json
// @Param   passwords body dto.ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Wrong old password"
// @Security BearerAuth
// @Router /users/change-password [post]
func (h *userHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind change password request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "Old and new passwords are required", err.Error()))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, logger, err, "Failed to change password")
		return
	}

	logger.Info("Password changed", slog.String("user_id", userID))
	respondSuccess(c, http.StatusOK, nil, "Password changed successfully")
}

// getCurrentUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce  json
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIError "No valid session"
// @Security BearerAuth
// @Router /users/current-user [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to fetch current user")
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToUserResponse(user), "Current user fetched successfully")
}

// updateAccount godoc
// @Summary Update fullname and email
// @Tags users
// @Accept  json
// @Produce  json
// @Param   details body dto.UpdateAccountRequest true "New account details"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Missing fields"
// @Failure 409 {object} dto.APIError "Email already in use"
// @Security BearerAuth
// @Router /users/update-account [patch]
func (h *userHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update account request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "Fullname and email are required", err.Error()))
		return
	}

	user, err := h.userService.UpdateAccount(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		respondError(c, logger, err, "Failed to update account details")
		return
	}

	logger.Info("Account details updated", slog.String("user_id", userID))
	respondSuccess(c, http.StatusOK, dto.ToUserResponse(user), "Account details updated successfully")
}

// updateAvatar godoc
// @Summary Replace the user's avatar
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Param   avatar formData file true "New avatar image"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Avatar file missing"
// @Failure 500 {object} dto.APIError "Upload failure"
// @Security BearerAuth
// @Router /users/avatar [patch]
func (h *userHandler) updateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

// updateCoverImage godoc
// @Summary Replace the user's cover image
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Param   coverImage formData file true "New cover image"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Cover image file missing"
// @Failure 500 {object} dto.APIError "Upload failure"
// @Security BearerAuth
// @Router /users/cover-image [patch]
func (h *userHandler) updateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

func (h *userHandler) updateImage(c *gin.Context, field string, update func(context.Context, string, string) (*domain.User, error), message string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	localPath, err := h.stageUpload(c, field)
	if err != nil {
		respondError(c, logger, err, "Failed to stage uploaded file")
		return
	}

	user, err := update(c.Request.Context(), userID, localPath)
	if err != nil {
		respondError(c, logger, err, "Failed to update image")
		return
	}

	logger.Info(message, slog.String("user_id", userID))
	respondSuccess(c, http.StatusOK, dto.ToUserResponse(user), message)
}

// getChannelProfile godoc
// @Summary Get a channel's public profile
// @Description Returns the channel's profile with subscriber counts and whether the viewer subscribes to it
// @Tags users
// @Produce  json
// @Param   username path string true "Channel username"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Username missing"
// @Failure 404 {object} dto.APIError "Channel not found"
// @Security BearerAuth
// @Router /users/channel/{username} [get]
func (h *userHandler) getChannelProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	viewerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	profile, err := h.userService.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		respondError(c, logger, err, "Failed to fetch channel profile")
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToChannelProfileResponse(profile), "Channel profile fetched successfully")
}

// getWatchHistory godoc
// @Summary Get the user's watch history
// @Description Returns watched videos with their owners, in viewing order
// @Tags users
// @Produce  json
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/watch-history [get]
func (h *userHandler) getWatchHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	entries, err := h.userService.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to fetch watch history")
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToWatchHistoryResponse(entries), "Watch history fetched successfully")
}

// recordWatch godoc
// @Summary Record a watched video
// @Tags users
// @Produce  json
// @Param   videoID path string true "Video ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIError "Video not found"
// @Security BearerAuth
// @Router /users/watch-history/{videoID} [post]
func (h *userHandler) recordWatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	videoID := c.Param("videoID")
	if err := h.userService.RecordWatch(c.Request.Context(), userID, videoID); err != nil {
		respondError(c, logger, err, "Failed to record watch entry")
		return
	}

	logger.Info("Watch entry recorded", slog.String("user_id", userID), slog.String("video_id", videoID))
	respondSuccess(c, http.StatusOK, nil, "Watch entry recorded successfully")
}
