package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgo/packlist/internal/config"
	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/middleware"
	"github.com/forgo/packlist/internal/repository"
	"github.com/forgo/packlist/internal/server"
	"github.com/forgo/packlist/internal/service"
	"github.com/forgo/packlist/internal/telemetry"
	"github.com/forgo/packlist/pkg/jwt"
	"github.com/joho/godotenv"
)

const serviceName = "packlist"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", slog.String("error", err.Error()))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.JWT.Secret == config.DevJWTSecret {
		slog.Warn("JWT_SECRET not set, using the development secret")
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    cfg.Server.Env,
		Endpoint:       cfg.Telemetry.Endpoint,
	})
	if err != nil {
		slog.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		slog.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiry,
	})
	if err != nil {
		_ = db.Close()
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	packListRepo := repository.NewPackListRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})
	packListService := service.NewPackListService(service.PackListServiceConfig{
		PackListRepo:    packListRepo,
		OwnerRepo:       userRepo,
		AtomicOwnership: cfg.PackList.AtomicOwnership,
		LinkTimeout:     cfg.PackList.LinkTimeout,
	})

	// Initialize middleware state
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL: cfg.Idempotency.TTL,
	})

	router := server.NewRouter(server.Deps{
		PackLists:      packListService,
		Auth:           authService,
		Tokens:         authService,
		DB:             db,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    rateLimiter,
		Idempotency:    idempotencyStore,
	})

	handle, err := server.Start(ctx, server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router)
	if err != nil {
		_ = db.Close()
		slog.Error("failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run in reverse: links drain first, tracing flushes last
	handle.OnStop("tracing", shutdownTracing)
	handle.OnStop("database", func(context.Context) error { return db.Close() })
	handle.OnStop("idempotency", func(context.Context) error {
		idempotencyStore.Stop()
		return nil
	})
	handle.OnStop("rate limiter", func(context.Context) error {
		rateLimiter.Stop()
		return nil
	})
	handle.OnStop("owner links", packListService.Wait)

	slog.Info("starting server",
		slog.String("addr", handle.Addr()),
		slog.String("env", cfg.Server.Env),
		slog.Bool("atomic_ownership", cfg.PackList.AtomicOwnership),
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		slog.Info("shutting down server...", slog.String("signal", sig.String()))
	case err := <-handle.Err():
		if err != nil {
			slog.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := server.Stop(context.Background(), handle); err != nil {
		slog.Error("unclean shutdown", slog.String("error", err.Error()))
		exitCode = 1
	}

	slog.Info("server exited")
	os.Exit(exitCode)
}
