package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fpig97-cmd/SKYBOT/internal/auth"
	"github.com/fpig97-cmd/SKYBOT/internal/config"
	"github.com/fpig97-cmd/SKYBOT/internal/logger"
	"github.com/fpig97-cmd/SKYBOT/internal/ranking"
	"github.com/fpig97-cmd/SKYBOT/internal/roblox"
)

func main() {
	appLogger := logger.NewFromEnv()
	defer func() {
		_ = appLogger.Sync() // Ignore sync errors on close, as per zap documentation
	}()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Invalid configuration",
			"error", err,
		)
	}

	gin.SetMode(gin.ReleaseMode) // Explicitly set release mode
	if cfg.DebugMode {
		gin.SetMode(gin.DebugMode)
	}

	session := roblox.NewClient(cfg.RobloxCookie)

	// The session must be valid before the listener binds; a bad cookie is
	// fatal at startup, never discovered per-request.
	authCtx, cancelAuth := context.WithTimeout(context.Background(), 30*time.Second)
	account, err := session.Authenticate(authCtx)
	cancelAuth()
	if err != nil {
		appLogger.Fatal("Roblox login failed",
			"error", err,
		)
	}
	appLogger.Info("Logged into Roblox",
		"account", account.Name,
		"user_id", account.ID,
	)

	router := gin.Default()
	if cfg.DebugMode {
		router.Use(cors.New(cors.Config{
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{auth.HeaderName, "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Type"},
			AllowOriginFunc: func(origin string) bool {
				return true
			},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	rankHandler := ranking.NewHandler(appLogger, session, cfg.GroupID)

	router.GET("/health", rankHandler.Health)

	protected := router.Group("/", auth.APIKeyMiddleware(cfg.APIKey))
	protected.POST("/rank", rankHandler.SetRank)
	protected.POST("/bulk-promote", rankHandler.BulkPromote)
	protected.POST("/bulk-demote", rankHandler.BulkDemote)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		// No WriteTimeout: a bulk request runs one Roblox round-trip per
		// username and may legitimately outlive any fixed deadline.
	}

	go func() {
		appLogger.Info("Rank server listening",
			"port", cfg.Port,
			"group_id", cfg.GroupID,
			"debug_mode", cfg.DebugMode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed to start",
				"error", err,
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received, shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown",
			"error", err,
		)
	}

	appLogger.Info("Server exited gracefully")
}
