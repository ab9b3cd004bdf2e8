package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/service"
)

// RoleHandler handles role and channel overwrite endpoints.
type RoleHandler struct {
	service *service.RoleService
}

// NewRoleHandler creates a RoleHandler.
func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{service: svc}
}

type createRoleRequest struct {
	Name     string `json:"name"`
	Color    int    `json:"color"`
	Allow    int64  `json:"allow,string"`
	Deny     int64  `json:"deny,string"`
	Position int    `json:"position"`
}

// CreateRole handles POST /api/v1/guilds/:id/roles.
func (h *RoleHandler) CreateRole(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	role, err := h.service.CreateRole(c.Request().Context(), guildID, userID, req.Name, req.Color, req.Allow, req.Deny, req.Position)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, role)
}

// ListRoles handles GET /api/v1/guilds/:id/roles.
func (h *RoleHandler) ListRoles(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	roles, err := h.service.ListRoles(c.Request().Context(), guildID, userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, roles)
}

type updateRoleRequest struct {
	Name     *string `json:"name"`
	Color    *int    `json:"color"`
	Allow    *int64  `json:"allow,string"`
	Deny     *int64  `json:"deny,string"`
	Position *int    `json:"position"`
}

// UpdateRole handles PATCH /api/v1/guilds/:id/roles/:role_id.
func (h *RoleHandler) UpdateRole(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid role ID")
	}

	userID := auth.GetUserID(c)

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	role, err := h.service.UpdateRole(c.Request().Context(), guildID, userID, roleID, req.Name, req.Color, req.Allow, req.Deny, req.Position)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /api/v1/guilds/:id/roles/:role_id.
func (h *RoleHandler) DeleteRole(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid role ID")
	}

	userID := auth.GetUserID(c)

	if err := h.service.DeleteRole(c.Request().Context(), guildID, userID, roleID); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type reorderRolesRequest struct {
	RoleIDs []int64 `json:"role_ids"`
}

// ReorderRoles handles PATCH /api/v1/guilds/:id/roles.
func (h *RoleHandler) ReorderRoles(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	var req reorderRolesRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	if err := h.service.ReorderRoles(c.Request().Context(), guildID, userID, req.RoleIDs); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AssignRole handles PUT /api/v1/guilds/:id/members/:user_id/roles/:role_id.
func (h *RoleHandler) AssignRole(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid role ID")
	}

	userID := auth.GetUserID(c)

	if err := h.service.AssignRole(c.Request().Context(), guildID, userID, targetID, roleID); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveRole handles DELETE /api/v1/guilds/:id/members/:user_id/roles/:role_id.
func (h *RoleHandler) RemoveRole(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid role ID")
	}

	userID := auth.GetUserID(c)

	if err := h.service.RemoveRole(c.Request().Context(), guildID, userID, targetID, roleID); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type setOverwriteRequest struct {
	TargetType int   `json:"target_type"`
	Allow      int64 `json:"allow,string"`
	Deny       int64 `json:"deny,string"`
}

// SetChannelOverwrite handles PUT /api/v1/channels/:id/permissions/:target_id.
func (h *RoleHandler) SetChannelOverwrite(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	targetID, err := strconv.ParseInt(c.Param("target_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid target ID")
	}

	userID := auth.GetUserID(c)

	var req setOverwriteRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	overwrite, err := h.service.SetChannelOverwrite(c.Request().Context(), channelID, userID, targetID, models.OverwriteTargetType(req.TargetType), req.Allow, req.Deny)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, overwrite)
}

// DeleteChannelOverwrite handles DELETE /api/v1/channels/:id/permissions/:target_id.
func (h *RoleHandler) DeleteChannelOverwrite(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	targetID, err := strconv.ParseInt(c.Param("target_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid target ID")
	}

	userID := auth.GetUserID(c)

	if err := h.service.DeleteChannelOverwrite(c.Request().Context(), channelID, userID, targetID); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
