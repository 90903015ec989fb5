// Package health provides the health check endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/cache"
	"github.com/festy23/teampulse/internal/database/database"
)

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.SugaredLogger
}

// New creates a health handler. A nil cache is treated as disabled.
func New(db *gorm.DB, c cache.Cache, logger *zap.SugaredLogger) *Handler {
	if c == nil {
		c = cache.NewNop()
	}
	return &Handler{db: db, cache: c, logger: logger}
}

// Response is the health check body.
type Response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Check handles GET /health. The database is required; a failing cache only
// degrades the service because metrics are computed without it.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := Response{Status: "ok", Database: "ok", Cache: "ok"}
	code := http.StatusOK

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("database health check failed", "error", err)
		resp.Status, resp.Database = "unhealthy", "down"
		code = http.StatusServiceUnavailable
	}

	if err := h.cache.Ping(ctx); err != nil {
		h.logger.Warnw("cache health check failed", "error", err)
		resp.Cache = "down"
		if code == http.StatusOK {
			resp.Status = "degraded"
		}
	}

	c.JSON(code, resp)
}
