package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/cache"
)

// RateLimit allows limit requests per client ip per window. Counter failures
// let the request through.
func RateLimit(counter cache.Cache, limit int, window time.Duration, logger *zap.SugaredLogger) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return func(c *gin.Context) {
		ok, err := counter.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			logger.Warnw("rate limit check failed", "client_ip", c.ClientIP(), "error", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "TOO_MANY_REQUESTS",
					"message": "rate limit exceeded",
				},
			})
			return
		}
		c.Next()
	}
}
