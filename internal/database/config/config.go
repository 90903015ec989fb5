// Package config provides database connection settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	appconfig "github.com/festy23/teampulse/internal/config"
	"github.com/festy23/teampulse/pkg/retry"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
}

// LoadConfigFromEnv reads DB_* variables.
func LoadConfigFromEnv() Config {
	return Config{
		Host:     appconfig.GetEnv("DB_HOST", "localhost"),
		User:     appconfig.GetEnv("DB_USER", "postgres"),
		Password: appconfig.GetEnv("DB_PASSWORD", "postgres"),
		DBName:   appconfig.GetEnv("DB_NAME", "teampulse"),
		Port:     appconfig.GetEnv("DB_PORT", "5432"),
		SSLMode:  appconfig.GetEnv("DB_SSLMODE", "disable"),
		TimeZone: appconfig.GetEnv("DB_TIMEZONE", "UTC"),
	}
}

// DSN is the libpq keyword/value connection string.
func (c Config) DSN() string {
	return c.dsn(c.Password)
}

func (c Config) dsn(password string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

// MigrationsPath is the golang-migrate source directory.
func MigrationsPath() string {
	return appconfig.GetEnv("MIGRATIONS_PATH", "migrations")
}

// SanitizeError strips the password from a connection error.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msg = strings.ReplaceAll(msg, cfg.DSN(), cfg.dsn("***"))
	if cfg.Password != "" {
		msg = strings.ReplaceAll(msg, cfg.Password, "***")
	}
	return fmt.Errorf("connect to database: %s", msg)
}

// LoadRetryConfigFromEnv tunes retry.PostgresConfig with DB_RETRY_* variables.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.PostgresConfig()
	cfg.MaxAttempts = appconfig.GetEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.InitialDelay = appconfig.GetEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.InitialDelay)
	cfg.MaxDelay = appconfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	cfg.Multiplier = getEnvFloat("DB_RETRY_MULTIPLIER", cfg.Multiplier)
	return cfg
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}
