package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/cache"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/events"
	"jobboard/internal/handlers/api/v1/company"
	"jobboard/internal/middleware"
	"jobboard/internal/repositories"
	"jobboard/internal/response"
	"jobboard/internal/router"
	"jobboard/internal/services"
	"jobboard/internal/storage"
	"jobboard/internal/utils/appinfo"

	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting job board API",
		zap.String("version", appinfo.GetVersion()),
		zap.String("environment", cfg.Server.Environment),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Application failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Database
	dbManager, err := database.NewManager(ctx, &cfg.Database, logger.Named("database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbManager.Close()

	if cfg.Database.RunMigrations {
		if err := dbManager.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	repos, err := repositories.NewCollection(dbManager, logger)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	// Cache
	cacheConfig := cache.DefaultConfig()
	cacheConfig.Provider = cfg.Cache.Provider
	cacheConfig.RedisURL = cfg.Cache.RedisURL
	cacheConfig.TTL = cfg.Cache.JobsTTL
	cacheInstance, err := cache.NewCache(cacheConfig, logger.Named("cache"))
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer cacheInstance.Close()

	// File storage
	var fileStorage services.FileStorage = storage.Unavailable{}
	if cloudinaryService, err := storage.NewCloudinaryService(cfg.Cloudinary, logger.Named("cloudinary")); err != nil {
		logger.Warn("Cloudinary unavailable, uploads are disabled", zap.Error(err))
	} else {
		fileStorage = cloudinaryService
		logger.Info("Cloudinary service initialized")
	}

	// Authentication
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	var sessions middleware.SessionVerifier
	if cfg.Identity.JWTPublicKey != "" {
		verifier, err := auth.NewIdentityVerifier(cfg.Identity.JWTPublicKey, cfg.Identity.Issuer)
		if err != nil {
			return fmt.Errorf("failed to load identity provider key: %w", err)
		}
		sessions = verifier
	} else {
		logger.Warn("IDENTITY_JWT_PUBLIC_KEY not set, user routes are disabled")
	}

	var webhookVerifier services.WebhookVerifier
	if cfg.Identity.WebhookSecret != "" {
		wh, err := svix.NewWebhook(cfg.Identity.WebhookSecret)
		if err != nil {
			return fmt.Errorf("invalid webhook secret: %w", err)
		}
		webhookVerifier = wh
	} else {
		logger.Warn("WEBHOOK_SECRET not set, identity webhooks are rejected")
	}

	// Services
	bus := events.NewBus(logger.Named("events"))
	serviceCollection, err := services.NewServiceCollection(services.Dependencies{
		Repositories: repos,
		Database:     dbManager,
		Cache:        cacheInstance,
		Storage:      fileStorage,
		Tokens:       tokens,
		Publisher:    bus,
		Verifier:     webhookVerifier,
	}, services.Config{
		BCryptCost:      cfg.Auth.BCryptCost,
		LogoFolder:      cfg.Cloudinary.LogoFolder,
		ResumeFolder:    cfg.Cloudinary.ResumeFolder,
		MaxLogoSize:     cfg.Cloudinary.MaxLogoSize,
		MaxResumeSize:   cfg.Cloudinary.MaxResumeSize,
		VisibilityGrace: cfg.Jobs.VisibilityGrace,
		JobsCacheTTL:    cfg.Cache.JobsTTL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create services: %w", err)
	}
	serviceCollection.StartExpirySweeper(cfg.Jobs.ExpirySweepInterval)

	// HTTP
	var authLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		trustedProxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			return fmt.Errorf("failed to parse trusted proxies: %w", err)
		}
		authLimiter = middleware.NewRateLimiter(cacheInstance, &middleware.RateLimiterConfig{
			Enabled:        true,
			Requests:       cfg.RateLimit.AuthRequests,
			Window:         cfg.RateLimit.AuthWindow,
			KeyPrefix:      "ratelimit:auth",
			TrustedProxies: trustedProxies,
		}, logger.Named("rate_limiter"))
	}

	responseConfig := response.DefaultConfig()
	responseConfig.PrettyJSON = cfg.IsDevelopment()

	handler := router.SetupRouter(router.Dependencies{
		Services: serviceCollection,
		Auth:     middleware.NewAuthMiddleware(tokens, sessions, logger.Named("auth")),
		Feed:     company.NewFeed(bus, cfg.Server.CORSOrigins, logger.Named("feed")),
	}, router.Config{
		Environment:     cfg.Server.Environment,
		CORSOrigins:     cfg.Server.CORSOrigins,
		EnableSwagger:   cfg.Server.EnableSwagger,
		MaxLogoSize:     cfg.Cloudinary.MaxLogoSize,
		MaxResumeSize:   cfg.Cloudinary.MaxResumeSize,
		Logging:         middleware.DefaultLoggingConfig(),
		Response:        responseConfig,
		AuthRateLimiter: authLimiter,
	}, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown setup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", server.Addr),
			zap.Bool("swagger", cfg.Server.EnableSwagger),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := serviceCollection.Shutdown(shutdownCtx); err != nil {
		logger.Error("Background workers did not stop in time", zap.Error(err))
	}

	logger.Info("Server shutdown completed")
	return nil
}

func initLogger(cfg config.LoggingConfig, production bool) (*zap.Logger, error) {
	var zapConfig zap.Config
	if production {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format != "" {
		zapConfig.Encoding = cfg.Format
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
