// Package handler provides HTTP handlers and access control for teams.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/auth"
	teamModel "github.com/festy23/teampulse/internal/team/model"
	"github.com/festy23/teampulse/internal/team/service"
)

// TeamIDParam is the path parameter carrying the team id.
const TeamIDParam = "team_id"

// Handler handles team requests.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a team handler.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// RequireMember lets the request through only when the authenticated login
// belongs to the team in the path. Unknown teams are 404, strangers 403.
func (h *Handler) RequireMember(c *gin.Context) {
	teamID := c.Param(TeamIDParam)

	err := h.service.Authorize(c.Request.Context(), teamID, auth.Login(c))
	switch {
	case err == nil:
		c.Next()
	case errors.Is(err, teamModel.ErrTeamNotFound), errors.Is(err, teamModel.ErrInvalidTeamID):
		notFoundResponse(c, "team not found")
	case errors.Is(err, teamModel.ErrNotMember):
		errorResponse(c, "FORBIDDEN", "you are not a member of this team", http.StatusForbidden)
	default:
		h.logger.Errorw("error authorizing team access", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}

// GetTeam handles GET /a/:team_id.
func (h *Handler) GetTeam(c *gin.Context) {
	teamID := c.Param(TeamIDParam)

	resp, err := h.service.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		if errors.Is(err, teamModel.ErrTeamNotFound) || errors.Is(err, teamModel.ErrInvalidTeamID) {
			notFoundResponse(c, "team not found")
			return
		}
		h.logger.Errorw("error getting team", "team_id", teamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}
