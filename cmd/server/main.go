// Package main is the entrypoint for the insights API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/upliftlabs/insights/internal/api"
	"github.com/upliftlabs/insights/internal/api/handler"
	mw "github.com/upliftlabs/insights/internal/api/middleware"
	"github.com/upliftlabs/insights/internal/api/response"
	"github.com/upliftlabs/insights/internal/cache"
	"github.com/upliftlabs/insights/internal/config"
	"github.com/upliftlabs/insights/internal/insight"
	"github.com/upliftlabs/insights/internal/scoring"
	"github.com/upliftlabs/insights/internal/store"
	"github.com/upliftlabs/insights/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a local-development convenience; absence is not an error
	_ = godotenv.Load()

	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store, metrics, and insight service
	pgStore := store.NewPostgresStore(pool)
	mgr := metrics.NewManager("insights")

	svc := insight.NewService(pgStore, redisCache, scoringConfig(cfg.Insights),
		insight.WithCacheTTL(cfg.Insights.CacheTTL),
		insight.WithMetrics(mgr))

	// 6. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, cfg.Insights.RateLimitPerMin)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,
		Metrics:   mgr,

		HealthHandler:   healthHandler(pgStore, redisCache),
		GenerateHandler: handler.NewGenerateHandler(svc),
		MetricsHandler:  handler.NewMetricsHandler(svc),
		ExportHandler:   handler.NewExportHandler(svc),

		CreateKeyHandler: handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:  handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler: handler.NewRevokeKeyHandler(pgStore),

		PromHandler: mgr.Handler(),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// scoringConfig starts from the canonical rule parameters and applies any
// threshold overrides present in the environment. Negative values mean the
// variable was unset.
func scoringConfig(ins config.InsightsConfig) scoring.Config {
	sc := scoring.DefaultConfig()
	if ins.AttritionThreshold >= 0 {
		sc.AttritionThreshold = ins.AttritionThreshold
	}
	if ins.SuccessThreshold >= 0 {
		sc.SuccessThreshold = ins.SuccessThreshold
	}
	if ins.MatchThreshold >= 0 {
		sc.MatchThreshold = ins.MatchThreshold
	}
	if ins.GapThreshold >= 0 {
		sc.GapThreshold = ins.GapThreshold
	}
	return sc
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
