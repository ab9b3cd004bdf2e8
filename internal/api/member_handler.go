package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/service"
)

// MemberHandler handles member management endpoints.
type MemberHandler struct {
	service *service.MemberService
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{service: svc}
}

// JoinGuild handles PUT /api/v1/guilds/:id/members/@me.
func (h *MemberHandler) JoinGuild(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	member, err := h.service.JoinGuild(c.Request().Context(), guildID, userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, member)
}

// ListMembers handles GET /api/v1/guilds/:id/members.
func (h *MemberHandler) ListMembers(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > 100 {
			return Error(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be 1-100")
		}
		limit = parsed
	}

	offset := 0
	if o := c.QueryParam("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			return Error(c, http.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		offset = parsed
	}

	members, err := h.service.ListMembers(c.Request().Context(), guildID, userID, limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, members)
}

// GetMember handles GET /api/v1/guilds/:id/members/:user_id.
func (h *MemberHandler) GetMember(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	userID := auth.GetUserID(c)

	member, err := h.service.GetMember(c.Request().Context(), guildID, userID, targetID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, member)
}

type updateSelfRequest struct {
	Nickname *string `json:"nickname"`
}

// UpdateSelf handles PATCH /api/v1/guilds/:id/members/@me.
func (h *MemberHandler) UpdateSelf(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	var req updateSelfRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	member, err := h.service.UpdateSelf(c.Request().Context(), guildID, userID, req.Nickname)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, member)
}

// KickMember handles DELETE /api/v1/guilds/:id/members/:user_id.
func (h *MemberHandler) KickMember(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	userID := auth.GetUserID(c)

	if err := h.service.KickMember(c.Request().Context(), guildID, userID, targetID); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LeaveGuild handles DELETE /api/v1/guilds/:id/members/@me.
func (h *MemberHandler) LeaveGuild(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid guild ID")
	}

	userID := auth.GetUserID(c)

	if err := h.service.LeaveGuild(c.Request().Context(), guildID, userID); err != nil {
		return mapServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
