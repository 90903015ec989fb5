package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/cache"
)

type countingCache struct {
	cache.Cache
	hits map[string]int
	err  error
}

func (c *countingCache) Allow(_ context.Context, subject string, limit int, _ time.Duration) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	c.hits[subject]++
	return c.hits[subject] <= limit, nil
}

func setupRateLimitRouter(counter cache.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(counter, 2, time.Minute, zap.NewNop().Sugar()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRateLimit(t *testing.T) {
	r := setupRateLimitRouter(&countingCache{Cache: cache.NewNop(), hits: map[string]int{}})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "60", w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := setupRateLimitRouter(&countingCache{Cache: cache.NewNop(), err: errors.New("redis down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit_NopNeverLimits(t *testing.T) {
	r := setupRateLimitRouter(cache.NewNop())
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
