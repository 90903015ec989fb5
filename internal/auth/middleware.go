package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/config"
)

const loginKey = "auth.login"

// Login returns the authenticated login stored by Middleware.
func Login(c *gin.Context) string {
	return c.GetString(loginKey)
}

// SetLogin stores the authenticated login on the request context.
func SetLogin(c *gin.Context, login string) {
	c.Set(loginKey, login)
}

// Middleware rejects requests without a valid session. JSON callers get a 401
// envelope, page requests are redirected to the login URL and HTMX requests
// get a 401 with an HX-Redirect header.
func Middleware(tokens *Tokens, cfg config.AuthConfig, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Validate(tokenFrom(c, cfg.CookieName))
		if err != nil {
			if !errors.Is(err, ErrMissingToken) {
				logger.Infow("rejected session token", "path", c.Request.URL.Path, "error", err)
			}
			reject(c, cfg.LoginURL, err)
			return
		}
		SetLogin(c, claims.Login)
		c.Next()
	}
}

func tokenFrom(c *gin.Context, cookie string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if v, err := c.Cookie(cookie); err == nil {
		return v
	}
	return ""
}

func reject(c *gin.Context, loginURL string, err error) {
	target := loginURL + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	switch {
	case c.GetHeader("HX-Request") == "true":
		c.Header("HX-Redirect", target)
		c.AbortWithStatus(http.StatusUnauthorized)
	case wantsHTML(c):
		c.Redirect(http.StatusFound, target)
		c.Abort()
	default:
		message := "invalid session token"
		if errors.Is(err, ErrMissingToken) {
			message = "authentication required"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"code": "UNAUTHORIZED", "message": message},
		})
	}
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
