package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/auth"
	"filechat-lite/internal/handler"
	"filechat-lite/internal/hub"
	"filechat-lite/internal/middleware"
	"filechat-lite/internal/observability"
	"filechat-lite/internal/session"
	"filechat-lite/internal/store"
)

type Deps struct {
	Sessions    *session.Store
	Files       *store.FileStore
	Messages    *store.MessageStore
	Hub         *hub.Hub
	TokenConfig auth.TokenConfig
	Logger      *zap.Logger
	// Metrics is optional; /metrics is only mounted when it is set.
	Metrics        *observability.Metrics
	MaxUploadBytes int64
	// AuthRateLimit caps login and register attempts per client IP per
	// minute. Zero means 10.
	AuthRateLimit int
}

// NewRouter builds the engine. Background work it starts ends with ctx.
func NewRouter(ctx context.Context, deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Hub == nil {
		deps.Hub = hub.New()
	}
	if deps.AuthRateLimit <= 0 {
		deps.AuthRateLimit = 10
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	landing := &handler.LandingHandler{Sessions: deps.Sessions, Logger: deps.Logger}
	r.GET("/", landing.Index)
	r.GET("/health", landing.Health)
	r.NoRoute(landing.NotFound)

	authLimiter := middleware.NewRateLimiter(deps.AuthRateLimit, time.Minute)
	authLimiter.StopOnDone(ctx)
	authHandler := &handler.AuthHandler{Sessions: deps.Sessions, Hub: deps.Hub, TokenConfig: deps.TokenConfig, Logger: deps.Logger}
	limited := r.Group("/v1/auth")
	limited.Use(middleware.RateLimitMiddleware(authLimiter, deps.Logger))
	limited.POST("/login", authHandler.Login)
	limited.POST("/register", authHandler.Register)

	updates := &handler.UpdatesHandler{Hub: deps.Hub, Sessions: deps.Sessions, TokenConfig: deps.TokenConfig, Logger: deps.Logger}
	r.GET("/v1/updates", updates.Serve)

	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(deps.TokenConfig, deps.Sessions))
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)

	fileHandler := &handler.FileHandler{Files: deps.Files, Hub: deps.Hub, Logger: deps.Logger, MaxUploadBytes: deps.MaxUploadBytes}
	protected.GET("/files", fileHandler.List)
	protected.POST("/files", fileHandler.Upload)
	protected.GET("/files/:id/content", fileHandler.Download)
	protected.DELETE("/files/:id", fileHandler.Delete)

	messageHandler := &handler.MessageHandler{Messages: deps.Messages, Hub: deps.Hub, Logger: deps.Logger}
	protected.GET("/messages", messageHandler.List)
	protected.POST("/messages", messageHandler.Send)
	protected.DELETE("/messages/:id", messageHandler.Delete)

	dashboard := &handler.DashboardHandler{Files: deps.Files, Messages: messageHandler}
	protected.GET("/dashboard", dashboard.Show)

	return r
}
