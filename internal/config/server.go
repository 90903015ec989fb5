package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is empty to listen on all interfaces.
	Host string
	// Port accepts both ":8080" and "8080".
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// LoadServerConfigFromEnv loads server configuration from environment variables.
// The write timeout must leave room for a dashboard render, which waits for
// every fragment.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:            GetEnv("SERVER_HOST", ""),
		Port:            GetEnv("SERVER_PORT", ":8080"),
		ReadTimeout:     GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    GetEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     GetEnvDuration("SERVER_IDLE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// Address returns the listen address for http.Server.
func (c ServerConfig) Address() string {
	port := strings.TrimPrefix(c.Port, ":")
	if c.Host == "" {
		return ":" + port
	}
	return net.JoinHostPort(c.Host, port)
}

// Validate validates server configuration.
func (c ServerConfig) Validate() error {
	if strings.TrimPrefix(c.Port, ":") == "" {
		return fmt.Errorf("port must not be empty")
	}
	for name, d := range map[string]time.Duration{
		"ReadTimeout":  c.ReadTimeout,
		"WriteTimeout": c.WriteTimeout,
		"IdleTimeout":  c.IdleTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("ShutdownTimeout must be non-negative")
	}
	return nil
}
