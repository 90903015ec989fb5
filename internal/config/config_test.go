package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// setEnv sets vars for the duration of the test. An empty value reads as unset.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			FragmentTimeout: 5 * time.Second,
			MaxParallel:     4,
			CacheTTL:        time.Minute,
			PercentDecimals: 1,
			TieBreak:        TieBreakVolume,
			DefaultDays:     30,
			StalePRAge:      72 * time.Hour,
		},
		Auth: AuthConfig{
			JWTSecret:  "0123456789abcdef0123",
			TokenTTL:   time.Hour,
			LoginURL:   "/login",
			CookieName: "session",
		},
		GinMode: "release",
	}
}

func TestLoadFromEnv_DefaultValues(t *testing.T) {
	setEnv(t, map[string]string{
		"SERVER_PORT": "",
		"LOG_LEVEL":   "",
		"GIN_MODE":    "",
		"REDIS_URL":   "",
	})

	cfg := LoadFromEnv()
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, 30, cfg.Metrics.DefaultDays)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFromEnv_CustomValues(t *testing.T) {
	setEnv(t, map[string]string{
		"SERVER_PORT":                   ":9090",
		"LOG_LEVEL":                     "debug",
		"GIN_MODE":                      "debug",
		"METRICS_PERCENT_DECIMALS":      "0",
		"METRICS_LEADERBOARD_TIE_BREAK": "name",
		"METRICS_STALE_PR_HOURS":        "24",
		"REDIS_URL":                     "redis://localhost:6379/0",
		"AUTH_JWT_SECRET":               "a-very-long-test-secret",
	})

	cfg := LoadFromEnv()
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, 0, cfg.Metrics.PercentDecimals)
	assert.Equal(t, TieBreakName, cfg.Metrics.TieBreak)
	assert.Equal(t, 24*time.Hour, cfg.Metrics.StalePRAge)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "a-very-long-test-secret", cfg.Auth.JWTSecret)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("invalid server config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.ReadTimeout = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "server config validation failed")
	})

	t.Run("invalid logger config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logger.Level = "invalid"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger config validation failed")
	})

	t.Run("invalid metrics config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Metrics.PercentDecimals = 2
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "metrics config validation failed")
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = "short"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "auth config validation failed")
	})

	t.Run("redis with bad window", func(t *testing.T) {
		cfg := validConfig()
		cfg.Redis = RedisConfig{URL: "redis://localhost:6379", RateLimitRequests: 10, RateLimitWindow: time.Millisecond}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis config validation failed")
	})

	t.Run("invalid gin mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.GinMode = "invalid"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid GIN_MODE")
	})

	t.Run("valid gin modes", func(t *testing.T) {
		for _, mode := range []string{"debug", "release", "test"} {
			cfg := validConfig()
			cfg.GinMode = mode
			assert.NoError(t, cfg.Validate(), "mode %s should be valid", mode)
		}
	})
}

func TestMetricsConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MetricsConfig)
		errMsg string
	}{
		{"zero fragment timeout", func(c *MetricsConfig) { c.FragmentTimeout = 0 }, "FragmentTimeout"},
		{"zero parallelism", func(c *MetricsConfig) { c.MaxParallel = 0 }, "MaxParallel"},
		{"negative cache ttl", func(c *MetricsConfig) { c.CacheTTL = -time.Second }, "CacheTTL"},
		{"unknown tie break", func(c *MetricsConfig) { c.TieBreak = "random" }, "invalid tie break"},
		{"zero default days", func(c *MetricsConfig) { c.DefaultDays = 0 }, "DefaultDays"},
		{"zero stale age", func(c *MetricsConfig) { c.StalePRAge = 0 }, "StalePRAge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig().Metrics
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("cache disabled with zero ttl", func(t *testing.T) {
		cfg := validConfig().Metrics
		cfg.CacheTTL = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestRedisConfig_DisabledSkipsValidation(t *testing.T) {
	cfg := RedisConfig{}
	assert.False(t, cfg.Enabled())
	assert.NoError(t, cfg.Validate())
}
