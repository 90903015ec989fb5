//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return "redis://" + endpoint + "/0"
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedis(ctx, startRedis(t), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer c.Close()

	t.Run("get set delete", func(t *testing.T) {
		_, ok := c.Get(ctx, "missing")
		assert.False(t, ok)

		c.Set(ctx, "k", []byte(`{"total":3}`), time.Minute)
		val, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.JSONEq(t, `{"total":3}`, string(val))

		c.Del(ctx, "k")
		_, ok = c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("allow counts per window", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := c.Allow(ctx, "10.0.0.1", 3, time.Hour)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := c.Allow(ctx, "10.0.0.1", 3, time.Hour)
		require.NoError(t, err)
		assert.False(t, allowed)

		other, err := c.Allow(ctx, "10.0.0.2", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, other)
	})

	assert.NoError(t, c.Ping(ctx))
}
