package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/mkravets/city-weather-service/internal/api/http"
	"github.com/mkravets/city-weather-service/internal/cache"
	"github.com/mkravets/city-weather-service/internal/config"
	"github.com/mkravets/city-weather-service/internal/logger"
	"github.com/mkravets/city-weather-service/internal/scheduler"
	"github.com/mkravets/city-weather-service/internal/weather"
	"github.com/mkravets/city-weather-service/internal/weather/providers"
)

func main() {
	log := logger.New()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls. The timeout bounds
	// each attempt; retries are handled inside the provider.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Provider selection is a configuration concern; the pipeline only sees
	// the interface.
	var provider weather.Provider
	switch cfg.Provider {
	case config.ProviderOpenMeteo:
		provider = providers.NewOpenMeteoProvider(httpClient, cfg.GoogleGeocoderAPIKey)
	default:
		provider = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	}

	// Response cache with configured TTL, pruned periodically.
	recordCache := cache.New[weather.WeatherRecord](cfg.CacheTTL)

	service := weather.NewService(provider, recordCache, log)

	sched := scheduler.New(recordCache, cfg.CachePruneInterval, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration. The write timeout leaves room for a full
	// retry budget on the outbound side.
	app := fiber.New(fiber.Config{
		AppName:               "city-weather-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response for anything the handler didn't map.
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
				"code":  httpapi.CodeInternalError,
			})
		},
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "city-weather-service",
			"provider": provider.Name(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	log.WithField("port", cfg.Port).Info("city-weather-service listening")

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
