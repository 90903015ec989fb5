package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/config"
)

func setupRouter(tokens *Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour, CookieName: "session", LoginURL: "/login"}
	r := gin.New()
	r.Use(Middleware(tokens, cfg, zap.NewNop().Sugar()))
	r.GET("/a/team-1/metrics/snapshot", func(c *gin.Context) {
		c.String(http.StatusOK, Login(c))
	})
	return r
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens(config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour})
	valid, err := tokens.Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name         string
		headers      map[string]string
		cookie       string
		wantStatus   int
		wantBody     string
		wantLocation string
		wantHXRedir  bool
		wantCode     string
	}{
		{
			name:       "bearer token",
			headers:    map[string]string{"Authorization": "Bearer " + valid},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "session cookie",
			cookie:     valid,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "missing token json",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "invalid token json",
			headers:    map[string]string{"Authorization": "Bearer nope"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "non bearer scheme",
			headers:    map[string]string{"Authorization": "Basic YWxpY2U6cHc="},
			cookie:     valid,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:         "page request redirects",
			headers:      map[string]string{"Accept": "text/html,application/xhtml+xml"},
			wantStatus:   http.StatusFound,
			wantLocation: "/login?next=%2Fa%2Fteam-1%2Fmetrics%2Fsnapshot%3Fdays%3D7",
		},
		{
			name:        "htmx request",
			headers:     map[string]string{"HX-Request": "true", "Accept": "text/html"},
			wantStatus:  http.StatusUnauthorized,
			wantHXRedir: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(tokens)
			req := httptest.NewRequest(http.MethodGet, "/a/team-1/metrics/snapshot?days=7", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
			if tt.wantHXRedir {
				assert.Contains(t, w.Header().Get("HX-Redirect"), "/login?next=")
			}
			if tt.wantCode != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}
