// Package router provides team route registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/team/handler"
	"github.com/festy23/teampulse/internal/team/repository"
	"github.com/festy23/teampulse/internal/team/service"
)

// RegisterRoutes mounts the team endpoints on the team-scoped group and
// returns the membership guard for the group's other routes.
func RegisterRoutes(team *gin.RouterGroup, db *gorm.DB, logger *zap.SugaredLogger) gin.HandlerFunc {
	repo := repository.New(db)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	team.GET("", h.RequireMember, h.GetTeam)
	return h.RequireMember
}
