package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bobby-s-dev/current-weather/internal/api"
	"github.com/bobby-s-dev/current-weather/internal/config"
	"github.com/bobby-s-dev/current-weather/internal/services"
	"github.com/bobby-s-dev/current-weather/internal/settings"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if level, err := zapcore.ParseLevel(cfg.Server.LogLevel); err == nil && level != zapcore.InfoLevel {
		prodCfg := zap.NewProductionConfig()
		prodCfg.Level = zap.NewAtomicLevelAt(level)
		if l, err := prodCfg.Build(); err == nil {
			logger = l
			zap.ReplaceGlobals(logger)
		}
	}
	logger.Info("Starting Current Weather Service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repo, err := settings.Open(ctx, cfg.Settings.Driver, cfg.Settings.DSN)
	if err != nil {
		cancel()
		logger.Fatal("Failed to open settings store",
			zap.String("driver", cfg.Settings.Driver),
			zap.Error(err))
	}
	defer repo.Close()

	store, err := settings.NewService(ctx, repo, cfg.DefaultSettings(), logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to load settings", zap.Error(err))
	}

	weather := services.NewWeatherFactory(cfg, store, logger)
	tags := services.NewCacheTags(logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		JSONEncoder:           json.Marshal,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	adminUsers := map[string]string{}
	if cfg.Admin.Password != "" {
		adminUsers[cfg.Admin.User] = cfg.Admin.Password
	}

	// Setup handlers and routes
	handler := api.NewHandler(weather, store, tags, logger)
	api.SetupRoutes(app, handler, adminUsers, logger)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError
	message := "internal server error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   message,
		"success": false,
	})
}
