// Package database opens the PostgreSQL connection used by the repositories.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/festy23/teampulse/internal/database/config"
	"github.com/festy23/teampulse/internal/database/pool"
	"github.com/festy23/teampulse/pkg/retry"
)

// ErrNilDB is returned when a nil connection is passed in.
var ErrNilDB = errors.New("database connection is nil")

// Open connects to PostgreSQL, retrying transient failures, and applies the
// pool settings.
func Open(ctx context.Context, cfg config.Config, retryCfg retry.Config, poolCfg pool.Config, logger *zap.SugaredLogger) (*gorm.DB, error) {
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("database not ready, retrying",
			"attempt", attempt,
			"delay", delay,
			"host", cfg.Host,
			"error", config.SanitizeError(err, cfg),
		)
	}

	db, err := retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	})
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}

	if err := pool.Apply(db, poolCfg); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("configure connection pool: %w", err)
	}

	logger.Infow("database connected", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// HealthCheck pings the database.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return ErrNilDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases the underlying connections. A nil db is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
