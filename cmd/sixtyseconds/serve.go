package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/sixtyseconds/internal/api/http"
	"github.com/i474232898/sixtyseconds/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settingsStore := config.NewSettingsStore(cfg.SettingsPath)
	settings, err := settingsStore.Load()
	if err != nil {
		log.WithError(err).Warn("using default settings")
	}

	service := buildService(cfg)
	p := buildPlugin(cfg, service, settingsStore)
	p.Init(ctx, settings)
	defer p.Stop()

	// Settings edited on disk take effect without a restart.
	go func() {
		err := settingsStore.Watch(ctx, func(s config.Settings) {
			p.Init(ctx, s)
		})
		if err != nil {
			log.WithError(err).Error("settings watcher stopped")
		}
	}()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "sixtyseconds",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          45 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "sixtyseconds",
			"enabled": p.State(),
		})
	})

	httpapi.RegisterRoutes(app, p, settingsStore)

	go func() {
		log.Infof("listening on :%s (settings: %s)", cfg.Port, settingsStore.Path())
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}
