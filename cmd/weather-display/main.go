package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/weather-display/internal/api/http"
	"github.com/i474232898/weather-display/internal/config"
	"github.com/i474232898/weather-display/internal/datefmt"
	applog "github.com/i474232898/weather-display/internal/logger"
	"github.com/i474232898/weather-display/internal/observability"
	"github.com/i474232898/weather-display/internal/session"
	"github.com/i474232898/weather-display/internal/store"
	"github.com/i474232898/weather-display/internal/weather"
	"github.com/i474232898/weather-display/internal/weather/providers"
)

func main() {
	envErr := godotenv.Load()

	log := applog.New()
	slog.SetDefault(log)
	if envErr != nil {
		log.Info("no .env file loaded", "error", envErr)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Warn("OPEN_WEATHER_API_KEY is empty; the provider will reject every request")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to load display timezone", "error", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(providers.HTTPClientConfig{
		Client: httpClient,
		Breaker: providers.BreakerConfig{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
		},
	}, cfg.OpenWeatherBaseURL)

	service := weather.NewService(provider, cfg.OpenWeatherAPIKey, log)

	storage, err := newSessionStorage(cfg.Session)
	if err != nil {
		log.Error("failed to set up session storage", "backend", cfg.Session.Backend, "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	sessions := session.New(session.Config{
		Storage:      storage,
		Expiration:   cfg.Session.Expiration,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
	})

	app := fiber.New(fiber.Config{
		AppName:               "weather-display",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		Views:                 httpapi.NewEngine(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          httpapi.ErrorHandler(log),
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(observability.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-display",
		})
	})
	app.Get("/metrics", observability.Handler())

	httpapi.RegisterRoutes(app, httpapi.NewHandlers(service, sessions, datefmt.New(cfg.DisplayLocale, loc), log))

	go func() {
		log.Info("weather-display started", "port", cfg.Port, "session_backend", cfg.Session.Backend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("shutting down")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}

func newSessionStorage(cfg config.SessionConfig) (fiber.Storage, error) {
	if cfg.Backend != config.SessionBackendValkey {
		return store.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := store.DialValkey(ctx, cfg.ValkeyAddr)
	if err != nil {
		return nil, err
	}
	return store.NewValkeyStore(client, "weather-display:session"), nil
}
