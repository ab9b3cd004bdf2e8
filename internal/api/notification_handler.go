package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/service"
)

// NotificationHandler handles notification preference endpoints.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

type setNotificationRequest struct {
	Flags int64 `json:"flags"`
}

// SetSetting handles PUT /api/v1/users/@me/notifications/:target_id.
func (h *NotificationHandler) SetSetting(c echo.Context) error {
	targetID, err := strconv.ParseInt(c.Param("target_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid target ID")
	}

	userID := auth.GetUserID(c)

	var req setNotificationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	if err := h.service.SetSetting(c.Request().Context(), userID, targetID, models.NotificationFlags(req.Flags)); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSettings handles GET /api/v1/users/@me/notifications.
func (h *NotificationHandler) ListSettings(c echo.Context) error {
	userID := auth.GetUserID(c)

	settings, err := h.service.ListSettings(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}
