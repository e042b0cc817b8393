package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
)

// subscriptionHandler handles channel subscription requests.
type subscriptionHandler struct {
	userService portssvc.UserSvcFacade
}

// registerSubscriptionRoutes registers the subscription routes.
func registerSubscriptionRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := &subscriptionHandler{userService: userService}

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("/:channelID", h.subscribe)
		subscriptions.DELETE("/:channelID", h.unsubscribe)
	}
}

// subscribe godoc
// @Summary Subscribe to a channel
// @Tags subscriptions
// @Produce  json
// @Param   channelID path string true "Channel user ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIError "Subscribing to own channel"
// @Failure 404 {object} dto.APIError "Channel not found"
// @Security BearerAuth
// @Router /subscriptions/{channelID} [post]
func (h *subscriptionHandler) subscribe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	subscriberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	channelID := c.Param("channelID")
	if err := h.userService.Subscribe(c.Request.Context(), subscriberID, channelID); err != nil {
		respondError(c, logger, err, "Failed to subscribe")
		return
	}

	logger.Info("Subscribed to channel", slog.String("subscriber_id", subscriberID), slog.String("channel_id", channelID))
	respondSuccess(c, http.StatusOK, nil, "Subscribed successfully")
}

// unsubscribe godoc
// @Summary Unsubscribe from a channel
// @Tags subscriptions
// @Produce  json
// @Param   channelID path string true "Channel user ID"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /subscriptions/{channelID} [delete]
func (h *subscriptionHandler) unsubscribe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	subscriberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewAPIError(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	channelID := c.Param("channelID")
	if err := h.userService.Unsubscribe(c.Request.Context(), subscriberID, channelID); err != nil {
		respondError(c, logger, err, "Failed to unsubscribe")
		return
	}

	logger.Info("Unsubscribed from channel", slog.String("subscriber_id", subscriberID), slog.String("channel_id", channelID))
	respondSuccess(c, http.StatusOK, nil, "Unsubscribed successfully")
}
