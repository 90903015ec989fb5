package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLoggerConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setEnv(t, map[string]string{"LOG_LEVEL": "", "LOG_FORMAT": "", "LOG_OUTPUT": "", "LOG_SAMPLING": ""})

		cfg := LoadLoggerConfigFromEnv()
		assert.Equal(t, LoggerConfig{Level: "info", Format: "json", Output: "stdout", Sampling: true}, cfg)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("overrides are normalized", func(t *testing.T) {
		setEnv(t, map[string]string{"LOG_LEVEL": "DEBUG", "LOG_FORMAT": "Console", "LOG_OUTPUT": "/var/log/teampulse.log", "LOG_SAMPLING": "false"})

		cfg := LoadLoggerConfigFromEnv()
		assert.Equal(t, LoggerConfig{Level: "debug", Format: "console", Output: "/var/log/teampulse.log"}, cfg)
		assert.NoError(t, cfg.Validate())
		assert.False(t, cfg.IsProduction())
	})
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggerConfig
		wantErr string
	}{
		{name: "json info", cfg: LoggerConfig{Level: "info", Format: "json", Output: "stdout"}},
		{name: "console error", cfg: LoggerConfig{Level: "error", Format: "console", Output: "stderr"}},
		{name: "unknown level", cfg: LoggerConfig{Level: "trace", Format: "json", Output: "stdout"}, wantErr: "invalid log level"},
		{name: "unknown format", cfg: LoggerConfig{Level: "info", Format: "xml", Output: "stdout"}, wantErr: "invalid log format"},
		{name: "no output", cfg: LoggerConfig{Level: "info", Format: "json"}, wantErr: "log output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "warn", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}
