package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// googleOAuthHandler exchanges Google authorization codes for application
// sessions.
type googleOAuthHandler struct {
	cfg                *config.Config
	googleOAuthService portssvc.GoogleOAuthSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := &googleOAuthHandler{
		cfg:                cfg,
		googleOAuthService: services.GoogleOAuth,
		userService:        services.User,
		tokenService:       services.Token,
	}
	googleRoutes := rg.Group("/auth/google")
	{
		googleRoutes.POST("/exchange-code", h.exchangeCodeGoogle)
	}
}

// exchangeCodeRequest is the JSON body for the exchange-code endpoint.
type exchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// exchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for an application session
// @Description Validates the Google ID token, finds or creates the user and issues a token pair
// @Tags oauth
// @Accept  json
// @Produce  json
// @Param   code body exchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Invalid or expired authorization code"
// @Failure 401 {object} dto.APIError "Invalid Google ID token"
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req exchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind exchange code request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewAPIError(http.StatusBadRequest, "Authorization code is required", err.Error()))
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Warn("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		msg := "Failed to communicate with Google OAuth service"
		code := http.StatusBadGateway
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			msg = "Invalid or expired authorization code"
			code = http.StatusBadRequest
		}
		c.JSON(code, dto.NewAPIError(code, msg))
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, dto.NewAPIError(http.StatusInternalServerError, "Failed to retrieve ID token from Google"))
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Invalid Google ID token"))
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	providerUserID := payload.Subject

	if email == "" || providerUserID == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, dto.NewAPIError(http.StatusInternalServerError, "Essential user information missing from Google token"))
		return
	}

	user, err := h.userService.CreateOAuthUser(ctx, name, email, string(domain.ProviderGoogle), providerUserID, emailVerified)
	if err != nil {
		respondError(c, logger, err, "Failed to process user authentication")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(ctx, user)
	if err != nil {
		respondError(c, logger, err, "Failed to issue tokens")
		return
	}

	setTokenCookies(c, h.cfg, pair)
	logger.Info("User authenticated via Google OAuth", slog.String("user_id", user.UserID))
	respondSuccess(c, http.StatusOK, dto.ToLoginResponse(user, pair), "User logged in successfully")
}
