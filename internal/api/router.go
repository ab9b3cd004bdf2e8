package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/gateway"
	"github.com/victorivanov/guildcore/internal/redis"
)

// Dependencies holds all handler instances and middleware for route wiring.
type Dependencies struct {
	Guilds        *GuildHandler
	Channels      *ChannelHandler
	Members       *MemberHandler
	Messages      *MessageHandler
	Roles         *RoleHandler
	ReadStates    *ReadStateHandler
	Unread        *UnreadHandler
	DMs           *DMHandler
	Notifications *NotificationHandler
	Typing        *gateway.TypingHandler
	Gateway       *gateway.Manager

	TokenService *auth.TokenService
	Redis        *redis.Client
}

// SetupRouter registers all API routes on the Echo instance.
func SetupRouter(e *echo.Echo, deps *Dependencies) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// WebSocket gateway
	e.GET("/gateway", deps.Gateway.HandleWebSocket)

	v1 := e.Group("/api/v1")

	// Protected routes — require JWT auth + general rate limit
	authMw := deps.TokenService.Middleware()
	protected := v1.Group("", authMw,
		RateLimitMiddleware(deps.Redis, 50, time.Minute),
	)

	// Guilds
	protected.POST("/guilds", deps.Guilds.CreateGuild)
	protected.GET("/guilds/:id", deps.Guilds.GetGuild)
	protected.PATCH("/guilds/:id", deps.Guilds.UpdateGuild)
	protected.DELETE("/guilds/:id", deps.Guilds.DeleteGuild)
	protected.GET("/users/@me/guilds", deps.Guilds.ListMyGuilds)

	// Channels
	protected.POST("/guilds/:id/channels", deps.Channels.CreateChannel)
	protected.GET("/guilds/:id/channels", deps.Channels.ListChannels)
	protected.GET("/channels/:id", deps.Channels.GetChannel)
	protected.PATCH("/channels/:id", deps.Channels.UpdateChannel)
	protected.DELETE("/channels/:id", deps.Channels.DeleteChannel)

	// Members
	protected.PUT("/guilds/:id/members/@me", deps.Members.JoinGuild)
	protected.GET("/guilds/:id/members", deps.Members.ListMembers)
	protected.GET("/guilds/:id/members/:user_id", deps.Members.GetMember)
	protected.PATCH("/guilds/:id/members/@me", deps.Members.UpdateSelf)
	protected.DELETE("/guilds/:id/members/:user_id", deps.Members.KickMember)
	protected.DELETE("/guilds/:id/members/@me", deps.Members.LeaveGuild)

	// Roles
	protected.POST("/guilds/:id/roles", deps.Roles.CreateRole)
	protected.GET("/guilds/:id/roles", deps.Roles.ListRoles)
	protected.PATCH("/guilds/:id/roles", deps.Roles.ReorderRoles)
	protected.PATCH("/guilds/:id/roles/:role_id", deps.Roles.UpdateRole)
	protected.DELETE("/guilds/:id/roles/:role_id", deps.Roles.DeleteRole)
	protected.PUT("/guilds/:id/members/:user_id/roles/:role_id", deps.Roles.AssignRole)
	protected.DELETE("/guilds/:id/members/:user_id/roles/:role_id", deps.Roles.RemoveRole)

	// Channel permission overwrites
	protected.PUT("/channels/:id/permissions/:target_id", deps.Roles.SetChannelOverwrite)
	protected.DELETE("/channels/:id/permissions/:target_id", deps.Roles.DeleteChannelOverwrite)

	// Messages
	protected.POST("/channels/:id/messages", deps.Messages.SendMessage)
	protected.GET("/channels/:id/messages", deps.Messages.GetMessages)
	protected.GET("/channels/:id/messages/:message_id", deps.Messages.GetMessage)
	protected.PATCH("/channels/:id/messages/:message_id", deps.Messages.EditMessage)
	protected.DELETE("/channels/:id/messages/:message_id", deps.Messages.DeleteMessage)

	// Read states and unread mentions
	protected.PUT("/channels/:id/ack/:message_id", deps.ReadStates.Ack)
	protected.GET("/users/@me/read-states", deps.ReadStates.GetReadStates)
	protected.GET("/users/@me/mentions", deps.Unread.GetMentions)
	protected.GET("/users/@me/unacked", deps.Unread.GetUnacked)

	// DM channels
	protected.POST("/users/@me/channels", deps.DMs.CreateDM)
	protected.GET("/users/@me/channels", deps.DMs.ListDMs)
	protected.GET("/users/@me/channels/:id", deps.DMs.GetDM)

	// Notification preferences
	protected.PUT("/users/@me/notifications/:target_id", deps.Notifications.SetSetting)
	protected.GET("/users/@me/notifications", deps.Notifications.ListSettings)

	// Typing
	protected.POST("/channels/:id/typing", deps.Typing.Handle)
}
