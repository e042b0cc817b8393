package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// respondSuccess writes the uniform success envelope.
func respondSuccess(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, dto.NewAPIResponse(statusCode, data, message))
}

// respondError maps a service error onto the uniform error envelope. AppError
// codes and messages pass through; anything else becomes a 500 with the
// fallback message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error(appErr.Message, slog.String("error", err.Error()))
		} else {
			logger.Warn(appErr.Message, slog.String("error", err.Error()))
		}
		c.JSON(appErr.Code, dto.NewAPIError(appErr.Code, appErr.Message))
		return
	}

	logger.Error(fallback, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, dto.NewAPIError(http.StatusInternalServerError, fallback))
}

// setTokenCookies sets both auth tokens as HTTP-only cookies so browser
// clients do not have to manage them.
func setTokenCookies(c *gin.Context, cfg *config.Config, pair *domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.AccessTokenCookieName, pair.AccessToken, int(cfg.AccessTokenExpiry.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.RefreshTokenCookieName, pair.RefreshToken, int(cfg.RefreshTokenExpiry.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
}

// clearTokenCookies expires both auth cookies.
func clearTokenCookies(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.AccessTokenCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.RefreshTokenCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
}
