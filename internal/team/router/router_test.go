package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/auth"
	teamModel "github.com/festy23/teampulse/internal/team/model"
)

func setupRouter(t *testing.T, login string) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&teamModel.Team{}, &teamModel.Member{}))
	now := time.Now().UTC()
	require.NoError(t, db.Create(&teamModel.Team{TeamID: "team-1", Name: "Platform", CreatedAt: now}).Error)
	require.NoError(t, db.Create(&teamModel.Member{TeamID: "team-1", Login: "alice", Role: teamModel.RoleOwner, JoinedAt: now}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/a/:team_id", func(c *gin.Context) {
		auth.SetLogin(c, login)
		c.Next()
	})
	guard := RegisterRoutes(group, db, zap.NewNop().Sugar())
	group.GET("/guarded", guard, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name       string
		login      string
		path       string
		wantStatus int
	}{
		{name: "member sees team", login: "alice", path: "/a/team-1", wantStatus: http.StatusOK},
		{name: "member passes guard", login: "alice", path: "/a/team-1/guarded", wantStatus: http.StatusNoContent},
		{name: "stranger forbidden", login: "bob", path: "/a/team-1", wantStatus: http.StatusForbidden},
		{name: "stranger blocked by guard", login: "bob", path: "/a/team-1/guarded", wantStatus: http.StatusForbidden},
		{name: "unknown team", login: "alice", path: "/a/team-404", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t, tt.login)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
