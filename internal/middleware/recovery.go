package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/fragment"
)

// Recovery turns panics into a 500 JSON envelope. When the panicking request
// is an HTMX swap of a known container and assembler is set, it answers with
// that container's error fragment instead so the rest of the page keeps
// working.
func Recovery(logger *zap.SugaredLogger, assembler *fragment.Assembler, defaultDays int) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Errorw("panic recovered",
				"error", r,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", GetRequestID(c),
				"stack", string(debug.Stack()),
			)

			target := c.GetHeader("HX-Target")
			teamID := c.Param("team_id")
			if assembler != nil && c.GetHeader("HX-Request") == "true" && fragment.Known(target) && teamID != "" {
				f := filter.Parse(teamID, c.Request.URL.Query(), time.Now(), defaultDays)
				frag := assembler.Failed(target, f, fmt.Errorf("%w: %v", fragment.ErrPanic, r))
				c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(frag.HTML))
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "internal server error",
				},
			})
		}()

		c.Next()
	}
}
