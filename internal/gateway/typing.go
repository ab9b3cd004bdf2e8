package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/redis"
)

// TypingHandler handles POST /api/v1/channels/:id/typing. The indicator is
// best-effort state: Redis keeps it with a short TTL and the event fans out
// to the guild, or to the other recipients for a DM channel.
type TypingHandler struct {
	channels database.ChannelRepository
	dms      database.DMChannelRepository
	redis    *redis.Client
	manager  *Manager
}

// NewTypingHandler creates a TypingHandler.
func NewTypingHandler(
	channels database.ChannelRepository,
	dms database.DMChannelRepository,
	redisClient *redis.Client,
	manager *Manager,
) *TypingHandler {
	return &TypingHandler{
		channels: channels,
		dms:      dms,
		redis:    redisClient,
		manager:  manager,
	}
}

// Handle records a typing indicator and broadcasts TYPING_START.
func (h *TypingHandler) Handle(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid channel id")
	}

	userID := auth.GetUserID(c)
	ctx := c.Request().Context()

	data := TypingStartData{
		ChannelID: channelID,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
	}

	channel, err := h.channels.GetByID(ctx, channelID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if channel == nil {
		dm, err := h.dms.GetByID(ctx, channelID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		if dm == nil {
			return echo.NewHTTPError(http.StatusNotFound, "channel not found")
		}

		if err := h.redis.SetTyping(ctx, channelID, userID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		for _, recipientID := range dm.Recipients {
			if recipientID != userID {
				h.manager.DispatchToUser(recipientID, EventTypingStart, data)
			}
		}
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.redis.SetTyping(ctx, channelID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	data.GuildID = channel.GuildID
	h.manager.DispatchToGuild(channel.GuildID, EventTypingStart, data)

	return c.NoContent(http.StatusNoContent)
}
