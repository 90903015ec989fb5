// Package pool configures the database/sql connection pool behind gorm.
package pool

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	appconfig "github.com/festy23/teampulse/internal/config"
)

// Config holds connection pool limits.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Default returns the pool used when nothing is configured. Dashboard loads
// fan out per fragment, so the pool is sized for a handful of concurrent
// dataset reads per request.
func Default() Config {
	return Config{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// LoadFromEnv reads DB_POOL_* variables on top of Default.
func LoadFromEnv() Config {
	cfg := Default()
	cfg.MaxOpenConns = appconfig.GetEnvInt("DB_POOL_MAX_OPEN", cfg.MaxOpenConns)
	cfg.MaxIdleConns = appconfig.GetEnvInt("DB_POOL_MAX_IDLE", cfg.MaxIdleConns)
	cfg.ConnMaxLifetime = appconfig.GetEnvDuration("DB_POOL_MAX_LIFETIME", cfg.ConnMaxLifetime)
	cfg.ConnMaxIdleTime = appconfig.GetEnvDuration("DB_POOL_MAX_IDLE_TIME", cfg.ConnMaxIdleTime)
	return cfg
}

// Validate checks the limits are coherent.
func (c Config) Validate() error {
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must be non-negative, got %d", c.MaxIdleConns)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max idle connections (%d) exceed max open connections (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	return nil
}

// Apply validates cfg and sets it on db.
func Apply(db *gorm.DB, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return nil
}
