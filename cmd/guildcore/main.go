package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/victorivanov/guildcore/internal/api"
	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/config"
	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/gateway"
	redisclient "github.com/victorivanov/guildcore/internal/redis"
	"github.com/victorivanov/guildcore/internal/service"
	"github.com/victorivanov/guildcore/internal/snowflake"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// --- Infrastructure ---

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations("file://migrations", cfg.DatabaseURL); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	sf, err := snowflake.NewGenerator(cfg.SnowflakeNodeID)
	if err != nil {
		slog.Error("snowflake init failed", "error", err)
		os.Exit(1)
	}
	tokenSvc := auth.NewTokenService(cfg.JWTSecret)

	// --- Repositories ---

	guilds := database.NewGuildRepository(pool)
	channels := database.NewChannelRepository(pool)
	roles := database.NewRoleRepository(pool)
	members := database.NewMemberRepository(pool)
	messages := database.NewMessageRepository(pool)
	overwrites := database.NewChannelOverwriteRepository(pool)
	readStates := database.NewReadStateRepository(pool)
	dms := database.NewDMChannelRepository(pool)
	notifications := database.NewNotificationRepository(pool)

	// --- Gateway ---

	gwManager := gateway.NewManager(tokenSvc, guilds, readStates, rdb)

	// --- Services ---

	permSvc := service.NewPermissionService(guilds, members, roles, channels, overwrites, dms)
	guildSvc := service.NewGuildService(guilds, channels, members, sf, gwManager, permSvc)
	channelSvc := service.NewChannelService(channels, members, sf, gwManager, permSvc)
	memberSvc := service.NewMemberService(members, guilds, roles, gwManager, permSvc)
	roleSvc := service.NewRoleService(guilds, roles, members, channels, overwrites, sf, gwManager, permSvc)
	messageSvc := service.NewMessageService(messages, channels, dms, members, roles, readStates, rdb, sf, gwManager, permSvc)
	readStateSvc := service.NewReadStateService(readStates, rdb, gwManager, permSvc)
	unreadSvc := service.NewUnreadService(messages, readStates, guilds, members, channels, dms, notifications, permSvc)
	dmSvc := service.NewDMService(dms, sf, gwManager)
	notificationSvc := service.NewNotificationService(notifications)

	// --- Handlers ---

	deps := &api.Dependencies{
		Guilds:        api.NewGuildHandler(guildSvc),
		Channels:      api.NewChannelHandler(channelSvc),
		Members:       api.NewMemberHandler(memberSvc),
		Messages:      api.NewMessageHandler(messageSvc),
		Roles:         api.NewRoleHandler(roleSvc),
		ReadStates:    api.NewReadStateHandler(readStateSvc),
		Unread:        api.NewUnreadHandler(unreadSvc),
		DMs:           api.NewDMHandler(dmSvc),
		Notifications: api.NewNotificationHandler(notificationSvc),
		Typing:        gateway.NewTypingHandler(channels, dms, rdb, gwManager),
		Gateway:       gwManager,
		TokenService:  tokenSvc,
		Redis:         rdb,
	}

	// --- Echo ---

	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.SetupRouter(e, deps)

	// --- Start ---

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("guildcore starting", "addr", cfg.ServerAddr)
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
