package config

import (
	"fmt"
	"time"
)

// RedisConfig holds cache and rate limiting settings.
// An empty URL disables both.
type RedisConfig struct {
	URL               string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// AnalyticsConfig holds product analytics settings.
type AnalyticsConfig struct {
	// PostHogAPIKey enables event capture when set.
	PostHogAPIKey string
	// PostHogEndpoint is the ingestion host.
	PostHogEndpoint string
}

// LoadRedisConfigFromEnv loads redis configuration from environment variables.
func LoadRedisConfigFromEnv() RedisConfig {
	return RedisConfig{
		URL:               GetEnv("REDIS_URL", ""),
		RateLimitRequests: GetEnvInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// Enabled reports whether a redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// Validate validates redis configuration.
func (c RedisConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RateLimitRequests must be greater than 0")
	}
	if c.RateLimitWindow < time.Second {
		return fmt.Errorf("RateLimitWindow must be at least 1s")
	}
	return nil
}

// LoadAnalyticsConfigFromEnv loads analytics configuration from environment variables.
func LoadAnalyticsConfigFromEnv() AnalyticsConfig {
	return AnalyticsConfig{
		PostHogAPIKey:   GetEnv("POSTHOG_API_KEY", ""),
		PostHogEndpoint: GetEnv("POSTHOG_ENDPOINT", "https://us.i.posthog.com"),
	}
}
