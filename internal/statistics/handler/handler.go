// Package handler provides HTTP handlers for team metrics.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/analytics"
	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/fragment"
	"github.com/festy23/teampulse/internal/statistics/aggregate"
	"github.com/festy23/teampulse/internal/statistics/service"
)

// TeamIDParam is the path parameter carrying the team id.
const TeamIDParam = "team_id"

// Query parameters outside the filter.
const (
	ParamGranularity = "granularity"
	ParamMetrics     = "metrics"
	ParamDimension   = "dimension"
	ParamPage        = "page"
	ParamPerPage     = "per_page"
)

// ClientIDHeader identifies a browser tab so that superseded fragment
// responses can be dropped.
const ClientIDHeader = "X-Client-ID"

// DefaultTrendMetrics are charted when a request names none.
var DefaultTrendMetrics = []string{aggregate.MetricPRsMerged, aggregate.MetricCycleTime, aggregate.MetricAIAdoption}

// Options configure the handler.
type Options struct {
	DefaultDays int
	Now         func() time.Time
}

// Handler serves metrics as JSON, CSV and HTML fragments.
type Handler struct {
	service   service.Service
	assembler *fragment.Assembler
	inflight  *fragment.Tracker
	events    analytics.Tracker
	opts      Options
	logger    *zap.SugaredLogger
}

// New creates a metrics handler. events may be nil.
func New(svc service.Service, assembler *fragment.Assembler, events analytics.Tracker, opts Options, logger *zap.SugaredLogger) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = filter.DefaultDays
	}
	if events == nil {
		events = &analytics.Client{}
	}
	return &Handler{
		service:   svc,
		assembler: assembler,
		inflight:  fragment.NewTracker(),
		events:    events,
		opts:      opts,
		logger:    logger,
	}
}

func (h *Handler) filter(c *gin.Context) filter.Filter {
	return filter.Parse(c.Param(TeamIDParam), c.Request.URL.Query(), h.opts.Now(), h.opts.DefaultDays)
}

// GetSnapshot handles GET /a/:team_id/metrics/snapshot.
func (h *Handler) GetSnapshot(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), h.filter(c))
	if err != nil {
		h.fail(c, "getting snapshot", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetTrends handles GET /a/:team_id/metrics/trends.
func (h *Handler) GetTrends(c *gin.Context) {
	g, err := aggregate.ParseGranularity(c.Query(ParamGranularity))
	if err != nil {
		h.fail(c, "parsing granularity", err)
		return
	}

	series, err := h.service.Trends(c.Request.Context(), h.filter(c), g, queryList(c, ParamMetrics))
	if err != nil {
		h.fail(c, "getting trends", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"granularity": g, "series": series})
}

// GetBreakdownTrends handles GET /a/:team_id/metrics/trends/breakdown.
func (h *Handler) GetBreakdownTrends(c *gin.Context) {
	g, err := aggregate.ParseGranularity(c.Query(ParamGranularity))
	if err != nil {
		h.fail(c, "parsing granularity", err)
		return
	}

	dimension := c.DefaultQuery(ParamDimension, aggregate.DimensionIssueType)
	series, err := h.service.BreakdownTrends(c.Request.Context(), h.filter(c), g, dimension)
	if err != nil {
		h.fail(c, "getting breakdown trends", err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetLeaderboard handles GET /a/:team_id/metrics/leaderboard.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	lb, err := h.service.Leaderboard(c.Request.Context(), h.filter(c))
	if err != nil {
		h.fail(c, "getting leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, lb)
}

// ListPullRequests handles GET /a/:team_id/pull-requests.
func (h *Handler) ListPullRequests(c *gin.Context) {
	page, perPage := paging(c)
	p, err := h.service.PullRequests(c.Request.Context(), h.filter(c), page, perPage)
	if err != nil {
		h.fail(c, "listing pull requests", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetNeedsAttention handles GET /a/:team_id/pull-requests/attention.
func (h *Handler) GetNeedsAttention(c *gin.Context) {
	items, err := h.service.NeedsAttention(c.Request.Context(), h.filter(c))
	if err != nil {
		h.fail(c, "getting pull requests needing attention", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// queryList accepts both repeated parameters and comma separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// paging reads page and per_page; invalid values fall back to defaults.
func paging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.Query(ParamPerPage))
	if err != nil || perPage < 1 {
		perPage = aggregate.DefaultPerPage
	}
	return page, perPage
}
