package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festy23/teampulse/internal/analytics"
	"github.com/festy23/teampulse/internal/auth"
	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/fragment"
	"github.com/festy23/teampulse/internal/statistics/aggregate"
)

// ContainerParam is the path parameter naming a fragment container.
const ContainerParam = "container"

const htmlContentType = "text/html; charset=utf-8"

// task binds a container to the service call that feeds it.
func (h *Handler) task(c *gin.Context, containerID string, f filter.Filter) fragment.Task {
	t := fragment.Task{ContainerID: containerID, Filter: f}

	switch containerID {
	case fragment.KeyMetrics, fragment.ReviewDistribution, fragment.IssueTypes,
		fragment.SizeDistribution, fragment.Contributors:
		t.Compute = func(ctx context.Context) (any, error) {
			return h.service.Snapshot(ctx, f)
		}
	case fragment.NeedsAttention:
		t.Compute = func(ctx context.Context) (any, error) {
			return h.service.NeedsAttention(ctx, f)
		}
	case fragment.Leaderboard:
		t.Compute = func(ctx context.Context) (any, error) {
			return h.service.Leaderboard(ctx, f)
		}
	case fragment.TrendChart:
		metrics := queryList(c, ParamMetrics)
		if len(metrics) == 0 {
			metrics = DefaultTrendMetrics
		}
		granularity := c.Query(ParamGranularity)
		t.Compute = func(ctx context.Context) (any, error) {
			g, err := aggregate.ParseGranularity(granularity)
			if err != nil {
				return nil, err
			}
			return h.service.Trends(ctx, f, g, metrics)
		}
	case fragment.PRList:
		page, perPage := paging(c)
		t.Compute = func(ctx context.Context) (any, error) {
			return h.service.PullRequests(ctx, f, page, perPage)
		}
	}
	return t
}

// GetPartial handles GET /a/:team_id/metrics/partials/:container. It renders
// one container. When the same client has asked for the same container again
// before this response is ready, the response is dropped with 204 and
// HX-Reswap: none so the newer content is never overwritten.
func (h *Handler) GetPartial(c *gin.Context) {
	containerID := c.Param(ContainerParam)
	if !fragment.Known(containerID) {
		errorResponse(c, "NOT_FOUND", "unknown container", http.StatusNotFound)
		return
	}

	f := h.filter(c)
	ticket := h.inflight.Begin(c.GetHeader(ClientIDHeader), containerID)
	defer ticket.Done()

	frag := h.assembler.Run(c.Request.Context(), h.task(c, containerID, f))

	if !ticket.Current() {
		h.logger.Debugw("dropping superseded fragment", "team_id", f.TeamID, "container", containerID, "filter", f.Encode())
		c.Header("HX-Reswap", "none")
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("HX-Push-Url", f.URL(filter.TeamPath(f.TeamID, "metrics", "dashboard")))
	c.Data(http.StatusOK, htmlContentType, []byte(frag.HTML))
}

// GetDashboard handles GET /a/:team_id/metrics/dashboard. Every container is
// computed concurrently; a failing container renders its error state while
// the others render normally.
func (h *Handler) GetDashboard(c *gin.Context) {
	f := h.filter(c)

	tasks := make([]fragment.Task, 0, len(fragment.Containers))
	for _, id := range fragment.Containers {
		tasks = append(tasks, h.task(c, id, f))
	}
	frags := h.assembler.RenderAll(c.Request.Context(), tasks)

	page, err := h.assembler.Page(f, frags)
	if err != nil {
		h.logger.Errorw("error rendering dashboard", "team_id", f.TeamID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	failed := 0
	for _, fr := range frags {
		if fr.Status == fragment.StatusError {
			failed++
		}
	}
	h.events.Capture(auth.Login(c), analytics.EventDashboardViewed, map[string]any{
		"team_id":      f.TeamID,
		"filter":       f.Encode(),
		"failed_parts": failed,
	})

	c.Data(http.StatusOK, htmlContentType, []byte(page))
}
