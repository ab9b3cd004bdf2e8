package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/service"
)

// UnreadHandler handles unread-mention query endpoints.
type UnreadHandler struct {
	service *service.UnreadService
}

// NewUnreadHandler creates an UnreadHandler.
func NewUnreadHandler(svc *service.UnreadService) *UnreadHandler {
	return &UnreadHandler{service: svc}
}

// GetMentions handles GET /api/v1/users/@me/mentions?channel_ids=1,2,3.
func (h *UnreadHandler) GetMentions(c echo.Context) error {
	userID := auth.GetUserID(c)

	raw := c.QueryParam("channel_ids")
	if raw == "" {
		return Error(c, http.StatusBadRequest, "MISSING_CHANNELS", "channel_ids query parameter is required")
	}

	parts := strings.Split(raw, ",")
	if len(parts) > 100 {
		return Error(c, http.StatusBadRequest, "TOO_MANY_CHANNELS", "at most 100 channels per query")
	}
	channelIDs := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
		}
		channelIDs = append(channelIDs, id)
	}

	mentions, err := h.service.UnreadMentions(c.Request().Context(), userID, channelIDs)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, mentions)
}

// GetUnacked handles GET /api/v1/users/@me/unacked.
func (h *UnreadHandler) GetUnacked(c echo.Context) error {
	userID := auth.GetUserID(c)

	summary, err := h.service.UnackedSummary(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}
