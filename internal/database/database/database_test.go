package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/database/config"
	"github.com/festy23/teampulse/internal/database/pool"
	"github.com/festy23/teampulse/pkg/retry"
)

func TestOpen_UnreachableDatabase(t *testing.T) {
	cfg := config.Config{
		Host:     "127.0.0.1",
		User:     "metrics",
		Password: "hunter2-secret",
		DBName:   "teampulse",
		Port:     "1",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
	retryCfg := retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, cfg, retryCfg, pool.Default(), zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Nil(t, db)
	assert.NotContains(t, err.Error(), "hunter2-secret")
	assert.Contains(t, err.Error(), "connect to database")
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)
		defer func() { _ = Close(db) }()

		assert.NoError(t, HealthCheck(context.Background(), db))
	})

	t.Run("closed", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)
		require.NoError(t, Close(db))

		assert.Error(t, HealthCheck(context.Background(), db))
	})

	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, HealthCheck(context.Background(), nil), ErrNilDB)
	})
}

func TestClose(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Close(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())

	assert.NoError(t, Close(nil))
}
