package config

import (
	"fmt"
	"strings"
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is json or console.
	Format string
	// Output is stdout, stderr or a file path.
	Output string
	// Sampling drops repeated entries in production mode.
	Sampling bool
}

// LoadLoggerConfigFromEnv loads logger configuration from environment variables.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:    strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		Format:   strings.ToLower(GetEnv("LOG_FORMAT", "json")),
		Output:   GetEnv("LOG_OUTPUT", "stdout"),
		Sampling: GetEnvBool("LOG_SAMPLING", true),
	}
}

// Validate validates logger configuration.
func (c LoggerConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be: debug, info, warn, error)", c.Level)
	}

	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (must be: json, console)", c.Format)
	}

	if c.Output == "" {
		return fmt.Errorf("log output must not be empty")
	}
	return nil
}

// IsProduction reports whether structured production logging applies.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}
