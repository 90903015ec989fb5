// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/analytics"
	"github.com/festy23/teampulse/internal/auth"
	"github.com/festy23/teampulse/internal/cache"
	"github.com/festy23/teampulse/internal/config"
	dbconfig "github.com/festy23/teampulse/internal/database/config"
	"github.com/festy23/teampulse/internal/database/database"
	"github.com/festy23/teampulse/internal/database/migrate"
	"github.com/festy23/teampulse/internal/database/pool"
	"github.com/festy23/teampulse/internal/fragment"
	"github.com/festy23/teampulse/internal/health"
	"github.com/festy23/teampulse/internal/middleware"
	"github.com/festy23/teampulse/internal/statistics/aggregate"
	"github.com/festy23/teampulse/internal/statistics/handler"
	statsrouter "github.com/festy23/teampulse/internal/statistics/router"
	"github.com/festy23/teampulse/internal/statistics/service"
	teamrouter "github.com/festy23/teampulse/internal/team/router"
	"github.com/festy23/teampulse/pkg/logger"
	"github.com/festy23/teampulse/pkg/retry"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logr, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	if err := run(cfg, logr); err != nil {
		logr.Fatalw("server stopped with error", "error", err)
	}
}

func run(cfg config.Config, logr *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCfg := pool.LoadFromEnv()
	if err := poolCfg.Validate(); err != nil {
		return fmt.Errorf("invalid pool configuration: %w", err)
	}

	db, err := database.Open(ctx, dbconfig.LoadConfigFromEnv(), dbconfig.LoadRetryConfigFromEnv(), poolCfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logr.Warnw("error closing database", "error", err)
		}
	}()

	if err := migrate.Up(db, dbconfig.MigrationsPath(), logr); err != nil {
		return err
	}

	c := cache.NewNop()
	if cfg.Redis.Enabled() {
		c, err = cache.NewRedis(ctx, cfg.Redis.URL, logr)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
	}
	defer func() { _ = c.Close() }()

	events := analytics.New(cfg.Analytics.PostHogAPIKey, cfg.Analytics.PostHogEndpoint, logr)
	defer events.Close()

	assembler, err := fragment.New(fragment.Config{
		Timeout:     cfg.Metrics.FragmentTimeout,
		MaxParallel: cfg.Metrics.MaxParallel,
	}, events, logr)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := newRouter(cfg, db, c, events, assembler, logr)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Infow("server starting", "addr", srv.Addr, "gin_mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logr.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logr.Info("server stopped")
	return nil
}

func newRouter(cfg config.Config, db *gorm.DB, c cache.Cache, events analytics.Tracker, assembler *fragment.Assembler, logr *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logr),
		middleware.Recovery(logr, assembler, cfg.Metrics.DefaultDays),
	)
	if cfg.Redis.Enabled() {
		r.Use(middleware.RateLimit(c, cfg.Redis.RateLimitRequests, cfg.Redis.RateLimitWindow, logr))
	}

	r.GET("/health", health.New(db, c, logr).Check)

	tokens := auth.NewTokens(cfg.Auth)
	team := r.Group("/a/:team_id", auth.Middleware(tokens, cfg.Auth, logr))
	guard := teamrouter.RegisterRoutes(team, db, logr)

	engine := aggregate.DefaultOptions()
	engine.PercentDecimals = cfg.Metrics.PercentDecimals
	engine.TieBreak = aggregate.TieBreak(cfg.Metrics.TieBreak)
	engine.StaleAfter = cfg.Metrics.StalePRAge

	statsrouter.RegisterRoutes(team.Group("", guard), db, statsrouter.Deps{
		Cache:     c,
		Events:    events,
		Assembler: assembler,
		Service: service.Options{
			Engine:      engine,
			CacheTTL:    cfg.Metrics.CacheTTL,
			Retry:       retry.QueryConfig(),
			LoadTimeout: cfg.Metrics.FragmentTimeout,
		},
		Handler: handler.Options{DefaultDays: cfg.Metrics.DefaultDays},
	}, logr)

	return r
}
