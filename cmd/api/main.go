// Package main is the entrypoint for the Tradepost API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/cache"
	"github.com/tradepost/tradepost/internal/config"
	"github.com/tradepost/tradepost/internal/handler"
	"github.com/tradepost/tradepost/internal/metrics"
	"github.com/tradepost/tradepost/internal/middleware"
	"github.com/tradepost/tradepost/internal/repository"
	"github.com/tradepost/tradepost/internal/server"
	"github.com/tradepost/tradepost/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	metricsRecorder := metrics.NewNoop()
	accountService := service.NewAccountService(repo, tokenService, metricsRecorder)
	productService := service.NewProductService(repo, metricsRecorder)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(accountService, logger)
	userHandler := handler.NewUserHandler(accountService, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	// Setup router
	r := setupRouter(
		healthHandler, authHandler, userHandler, productHandler,
		tokenService, repo, cacheClient, cfg, logger,
	)

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	tokens *auth.TokenService,
	repo *repository.Repository,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(chimiddleware.RequestSize(cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:     logger,
		Tokens:     tokens,
		Repository: repo,
		Cache:      cacheClient,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      logger,
		Cache:       cacheClient,
		APIEnabled:  cfg.RateLimitAPIEnabled,
		APIRPM:      cfg.RateLimitAPIRPM,
		APIBurst:    cfg.RateLimitAPIBurst,
		AuthEnabled: cfg.RateLimitAuthEnabled,
		AuthRPS:     cfg.RateLimitAuthRPS,
		AuthBurst:   cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints sit behind the static API key and an
		// IP rate limit rather than bearer auth.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKey(cfg.APIKey, logger))
				r.Use(middleware.RateLimitIP(rateLimitCfg))
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authCfg))
				r.Use(middleware.RateLimitAPI(rateLimitCfg))
				r.Post("/password", authHandler.ChangePassword)
			})
		})

		// Account management (bearer auth, decisions in the
		// authorization engine)
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitAPI(rateLimitCfg))
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.With(middleware.RequireStaff()).Post("/", userHandler.Create)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitAPI(rateLimitCfg))
			r.Get("/me", userHandler.Me)
		})

		// Product reads are public; mutations require bearer auth
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authCfg))
				r.Use(middleware.RateLimitAPI(rateLimitCfg))
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
