package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/service"
)

// DMHandler handles DM channel endpoints.
type DMHandler struct {
	service *service.DMService
}

// NewDMHandler creates a DMHandler.
func NewDMHandler(svc *service.DMService) *DMHandler {
	return &DMHandler{service: svc}
}

type createDMRequest struct {
	RecipientIDs []int64 `json:"recipient_ids"`
}

// CreateDM handles POST /api/v1/users/@me/channels.
func (h *DMHandler) CreateDM(c echo.Context) error {
	userID := auth.GetUserID(c)

	var req createDMRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	dm, err := h.service.CreateDM(c.Request().Context(), userID, req.RecipientIDs)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dm)
}

// GetDM handles GET /api/v1/users/@me/channels/:id.
func (h *DMHandler) GetDM(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	userID := auth.GetUserID(c)

	dm, err := h.service.GetDM(c.Request().Context(), channelID, userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dm)
}

// ListDMs handles GET /api/v1/users/@me/channels.
func (h *DMHandler) ListDMs(c echo.Context) error {
	userID := auth.GetUserID(c)

	dms, err := h.service.ListDMs(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dms)
}
