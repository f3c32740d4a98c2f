// Package server assembles the admin HTTP surface: router, middleware,
// module loading, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamvault/streamvault/internal/config"
	"github.com/streamvault/streamvault/internal/database"
	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/middleware"
	"github.com/streamvault/streamvault/internal/modules/modulemanager"

	// Import all modules to trigger their registration
	_ "github.com/streamvault/streamvault/internal/modules/analyticsmodule"
	_ "github.com/streamvault/streamvault/internal/modules/authmodule"
	_ "github.com/streamvault/streamvault/internal/modules/contentmodule"
	_ "github.com/streamvault/streamvault/internal/modules/eventsmodule"
	_ "github.com/streamvault/streamvault/internal/modules/securitymodule"
	_ "github.com/streamvault/streamvault/internal/modules/uploadmodule"
	_ "github.com/streamvault/streamvault/internal/modules/usermodule"
)

// SetupRouter loads the module system and returns the configured router.
func SetupRouter() (*gin.Engine, error) {
	r := gin.Default()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())

	if config.Get().Server.EnableCORS {
		r.Use(corsMiddleware())
	}

	if err := modulemanager.LoadAll(database.GetDB()); err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	modulemanager.RegisterAllRoutes(r)

	r.GET("/health", healthHandler)

	if bus := events.GetGlobalEventBus(); bus != nil {
		_ = bus.PublishAsync(events.Notification(events.EventSystemStarted,
			"server", "Server started", "StreamVault admin API is ready."))
	}
	return r, nil
}

// Run serves the router until ctx is cancelled, then drains connections
// and shuts the modules down.
func Run(ctx context.Context, router *gin.Engine) error {
	cfg := config.Get()
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error: %v", err)
	}

	if bus := events.GetGlobalEventBus(); bus != nil {
		_ = bus.PublishAsync(events.Notification(events.EventSystemStopped,
			"server", "Server stopping", "StreamVault admin API is shutting down."))
	}

	modulemanager.ShutdownAll(shutdownCtx)
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "streamvault",
	})
}
