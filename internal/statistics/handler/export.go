package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/festy23/teampulse/internal/analytics"
	"github.com/festy23/teampulse/internal/auth"
	"github.com/festy23/teampulse/internal/statistics/model"
)

var csvHeader = []string{
	"pull_request_id", "repository", "number", "title", "author", "state",
	"created_at", "merged_at", "cycle_time_hours", "size", "size_bucket",
	"comments", "ai_assisted", "issue_type", "reviewers",
}

// ExportPullRequests handles GET /a/:team_id/pull-requests/export.csv. The
// rows are exactly the rows of the list for the same filter.
func (h *Handler) ExportPullRequests(c *gin.Context) {
	f := h.filter(c)
	rows, err := h.service.Export(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "exporting pull requests", err)
		return
	}

	name := fmt.Sprintf("pull-requests-%s-%s.csv", f.TeamID, h.opts.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("X-Total-Count", strconv.Itoa(len(rows)))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(csvHeader); err != nil {
		h.logger.Errorw("error writing csv header", "team_id", f.TeamID, "error", err)
		return
	}
	for _, r := range rows {
		if err := w.Write(csvRecord(r)); err != nil {
			h.logger.Errorw("error writing csv row", "team_id", f.TeamID, "error", err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Errorw("error flushing csv", "team_id", f.TeamID, "error", err)
		return
	}

	h.events.Capture(auth.Login(c), analytics.EventMetricsExported, map[string]any{
		"team_id": f.TeamID,
		"rows":    len(rows),
		"filter":  f.Encode(),
	})
}

func csvRecord(r model.PullRequestRow) []string {
	merged, cycle := "", ""
	if r.MergedAt != nil {
		merged = r.MergedAt.UTC().Format(time.RFC3339)
	}
	if r.CycleTimeHours != nil {
		cycle = strconv.FormatFloat(*r.CycleTimeHours, 'f', 2, 64)
	}
	ai := "unknown"
	if r.AIAssisted != nil {
		ai = strconv.FormatBool(*r.AIAssisted)
	}
	return []string{
		r.PullRequestID,
		r.Repository,
		strconv.Itoa(r.Number),
		r.Title,
		r.Author,
		string(r.State),
		r.CreatedAt.UTC().Format(time.RFC3339),
		merged,
		cycle,
		strconv.Itoa(r.Size),
		r.SizeBucket,
		strconv.Itoa(r.Comments),
		ai,
		r.IssueType,
		strings.Join(r.Reviewers, ";"),
	}
}
