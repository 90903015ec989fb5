// Package router provides metrics route registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/analytics"
	"github.com/festy23/teampulse/internal/cache"
	"github.com/festy23/teampulse/internal/fragment"
	"github.com/festy23/teampulse/internal/statistics/handler"
	"github.com/festy23/teampulse/internal/statistics/repository"
	"github.com/festy23/teampulse/internal/statistics/service"
)

// Deps are the collaborators shared with the rest of the server.
type Deps struct {
	Cache     cache.Cache
	Events    analytics.Tracker
	Assembler *fragment.Assembler
	Service   service.Options
	Handler   handler.Options
}

// RegisterRoutes mounts the metrics endpoints on a team-scoped group
// (/a/:team_id) that is already guarded by authentication and membership.
func RegisterRoutes(team *gin.RouterGroup, db *gorm.DB, deps Deps, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, deps.Cache, deps.Service, logger)
	h := handler.New(svc, deps.Assembler, deps.Events, deps.Handler, logger)

	metrics := team.Group("/metrics")
	metrics.GET("/snapshot", h.GetSnapshot)
	metrics.GET("/trends", h.GetTrends)
	metrics.GET("/trends/breakdown", h.GetBreakdownTrends)
	metrics.GET("/leaderboard", h.GetLeaderboard)
	metrics.GET("/partials/:container", h.GetPartial)
	metrics.GET("/dashboard", h.GetDashboard)

	prs := team.Group("/pull-requests")
	prs.GET("", h.ListPullRequests)
	prs.GET("/attention", h.GetNeedsAttention)
	prs.GET("/export.csv", h.ExportPullRequests)
}
