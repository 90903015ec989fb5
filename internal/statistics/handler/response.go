package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festy23/teampulse/internal/statistics/model"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorResponse(c *gin.Context, code, message string, status int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.AbortWithStatusJSON(status, resp)
}

// badRequest reports whether err is a caller mistake rather than a failure.
func badRequest(err error) bool {
	return errors.Is(err, model.ErrNoMetrics) ||
		errors.Is(err, model.ErrTooManyMetrics) ||
		errors.Is(err, model.ErrUnknownMetric) ||
		errors.Is(err, model.ErrUnknownGranularity) ||
		errors.Is(err, model.ErrUnknownDimension)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	if badRequest(err) {
		errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Errorw("error "+op, "team_id", c.Param(TeamIDParam), "error", err)
	errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
}
