package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"lostfound/internal/api/middleware"
	"lostfound/internal/api/routes"
	"lostfound/internal/config"
	"lostfound/internal/core/posts"
	"lostfound/internal/core/users"
	postgresRepo "lostfound/internal/db/postgres"
	"lostfound/internal/identity"
	"lostfound/internal/logging"
	"lostfound/internal/ratelimit"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgresRepo.Connect(ctx, cfg.DatabaseURL, postgresRepo.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()
	slog.Info("connected to database")

	if err := postgresRepo.Migrate(ctx, db); err != nil {
		return err
	}
	slog.Info("migrations completed successfully")

	// Identity provider: session verification + profile lookups
	jwksFetcher, err := identity.NewCachedJWKSFetcher(ctx, cfg.Clerk.JWKSURL, 15*time.Minute)
	if err != nil {
		return err
	}
	verifier := identity.NewVerifier(jwksFetcher, identity.VerifierConfig{
		Issuer:            cfg.Clerk.Issuer,
		AuthorizedParties: cfg.Clerk.AuthorizedParties,
	})
	backend := identity.NewBackendClient(cfg.Clerk.APIURL, cfg.Clerk.SecretKey)
	authMiddleware := middleware.NewSessionAuthMiddleware(verifier)

	// Initialize repositories and services
	userRepo := postgresRepo.NewUserRepository(db)
	userService := users.NewUserService(userRepo, identity.NewProvider(identity.NewBreakerFetcher(backend, 5, 30*time.Second)))
	postRepo := postgresRepo.NewPostRepository(db)
	postService := posts.NewPostService(postRepo)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(chiMiddleware.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if cfg.RedisAddr != "" {
		redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis not reachable at startup; rate-limited requests will fail until it is", "addr", cfg.RedisAddr, "error", err)
		}

		window, _ := cfg.Window()
		limiter, err := ratelimit.NewFixedWindowLimiter(redisClient, ratelimit.Options{
			Limit:  cfg.RateLimitRequests,
			Window: window,
		})
		if err != nil {
			return err
		}
		r.Use(middleware.NewRateLimiter(limiter, limiter.Window()).Middleware)
		slog.Info("rate limiting enabled", "requests", limiter.Limit(), "window", limiter.Window())
	} else {
		slog.Warn("REDIS_ADDR not set; rate limiting disabled")
	}

	routes.RegisterPostRoutes(r, postService, userService, authMiddleware)
	routes.RegisterUserRoutes(r, userService, authMiddleware)
	if err := routes.RegisterWebRoutes(r, cfg.Clerk.PublishableKey); err != nil {
		return err
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("lost & found server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
