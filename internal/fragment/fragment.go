// Package fragment renders metrics into independently swappable HTML
// fragments, each addressed by a stable container id.
package fragment

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/teampulse/internal/analytics"
	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

// Container ids.
const (
	KeyMetrics         = "key-metrics-container"
	NeedsAttention     = "needs-attention-container"
	ReviewDistribution = "review-distribution-container"
	Leaderboard        = "leaderboard-container"
	IssueTypes         = "issue-types-container"
	SizeDistribution   = "size-distribution-container"
	Contributors       = "contributors-container"
	TrendChart         = "trend-chart-container"
	PRList             = "pr-list-container"
)

// Containers lists every container in dashboard order.
var Containers = []string{
	KeyMetrics,
	NeedsAttention,
	TrendChart,
	ReviewDistribution,
	Leaderboard,
	IssueTypes,
	SizeDistribution,
	Contributors,
	PRList,
}

// Known reports whether id is a container this package renders.
func Known(id string) bool {
	for _, c := range Containers {
		if c == id {
			return true
		}
	}
	return false
}

// Status is the load state of a fragment.
type Status string

// Fragment states.
const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
	StatusError Status = "error"
)

var (
	// ErrTimeout is reported when a fragment does not finish in time.
	ErrTimeout = errors.New("fragment timed out")
	// ErrPanic is reported when computing a fragment panicked.
	ErrPanic = errors.New("fragment panicked")
)

// Fragment is a rendered container. HTML always has a single root element
// carrying the container id, state and filter.
type Fragment struct {
	ContainerID string
	Status      Status
	HTML        template.HTML
	Err         error
}

//go:embed templates/*.html
var templateFS embed.FS

// Config tunes the assembler.
type Config struct {
	Timeout     time.Duration
	MaxParallel int
}

// Assembler renders fragments.
type Assembler struct {
	tmpl    *template.Template
	cfg     Config
	tracker analytics.Tracker
	logger  *zap.SugaredLogger
}

// New parses the embedded templates.
func New(cfg Config, tracker analytics.Tracker, logger *zap.SugaredLogger) (*Assembler, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 4
	}
	tmpl, err := template.New("fragments").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	return &Assembler{tmpl: tmpl, cfg: cfg, tracker: tracker, logger: logger}, nil
}

type frameData struct {
	ID       string
	Status   Status
	Query    string
	RetryURL string
	Body     template.HTML
}

type errorData struct {
	ID       string
	Message  string
	RetryURL string
}

// PartialURL is the endpoint that re-renders containerID for f.
func PartialURL(f filter.Filter, containerID string) string {
	return f.URL(partialPath(f.TeamID, containerID))
}

func partialPath(teamID, containerID string) string {
	return filter.TeamPath(teamID, "metrics", "partials", containerID)
}

// Assemble renders data into the container. A template failure yields an
// error fragment.
func (a *Assembler) Assemble(containerID string, f filter.Filter, data any) Fragment {
	if !Known(containerID) {
		return a.Failed(containerID, f, fmt.Errorf("%w: %s", model.ErrUnknownContainer, containerID))
	}

	view, empty := viewFor(containerID, f, data)
	status := StatusOK
	if empty {
		status = StatusEmpty
	}

	var body bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&body, containerID, view); err != nil {
		return a.Failed(containerID, f, fmt.Errorf("render %s: %w", containerID, err))
	}

	html, err := a.frame(frameData{
		ID:       containerID,
		Status:   status,
		Query:    f.Encode(),
		RetryURL: PartialURL(f, containerID),
		Body:     template.HTML(body.String()), //nolint:gosec // produced by html/template
	})
	if err != nil {
		return a.Failed(containerID, f, err)
	}
	return Fragment{ContainerID: containerID, Status: status, HTML: html}
}

// Failed renders the visible error state of a container and reports it.
func (a *Assembler) Failed(containerID string, f filter.Filter, cause error) Fragment {
	if errors.Is(cause, ErrTimeout) {
		a.logger.Warnw("fragment timed out", "container", containerID, "team_id", f.TeamID, "error", cause)
	} else {
		a.logger.Errorw("fragment failed", "container", containerID, "team_id", f.TeamID, "error", cause)
	}
	if a.tracker != nil {
		a.tracker.Capture(f.TeamID, analytics.EventFragmentFailed, map[string]any{
			"team_id":   f.TeamID,
			"container": containerID,
			"timeout":   errors.Is(cause, ErrTimeout),
		})
	}

	retry := PartialURL(f, containerID)
	var body bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&body, "error", errorData{
		ID:       containerID,
		Message:  "This section could not be loaded.",
		RetryURL: retry,
	}); err != nil {
		a.logger.Errorw("error template failed", "container", containerID, "error", err)
	}

	html, err := a.frame(frameData{
		ID:       containerID,
		Status:   StatusError,
		Query:    f.Encode(),
		RetryURL: retry,
		Body:     template.HTML(body.String()), //nolint:gosec // produced by html/template
	})
	if err != nil {
		html = template.HTML(fmt.Sprintf(`<div id="%s" data-state="error">This section could not be loaded.</div>`,
			template.HTMLEscapeString(containerID)))
	}
	return Fragment{ContainerID: containerID, Status: StatusError, HTML: html, Err: cause}
}

func (a *Assembler) frame(d frameData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "frame", d); err != nil {
		return "", fmt.Errorf("render frame: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

type pageData struct {
	TeamID    string
	Query     string
	Range     string
	Fragments []Fragment
}

// Page joins fragments into the dashboard body.
func (a *Assembler) Page(f filter.Filter, frags []Fragment) (template.HTML, error) {
	var buf bytes.Buffer
	err := a.tmpl.ExecuteTemplate(&buf, "dashboard", pageData{
		TeamID:    f.TeamID,
		Query:     f.Encode(),
		Range:     f.Range.Label(),
		Fragments: frags,
	})
	if err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// Medal returns the medal of a leaderboard rank.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	}
	return ""
}

var funcMap = template.FuncMap{
	"hours": func(v float64, ok bool) string {
		if !ok {
			return "—"
		}
		if v < 1 {
			return fmt.Sprintf("%dm", int(v*60))
		}
		return fmt.Sprintf("%.1fh", v)
	},
	"hoursPtr": func(v *float64) string {
		if v == nil {
			return "—"
		}
		return fmt.Sprintf("%.1fh", *v)
	},
	"pct": func(v float64, ok bool) string {
		if !ok {
			return "—"
		}
		return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", v), "0"), ".") + "%"
	},
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"aiLabel": func(v *bool) string {
		switch {
		case v == nil:
			return "unknown"
		case *v:
			return "yes"
		}
		return "no"
	},
	"join": strings.Join,
	"sortLink": func(links map[string]string, field string) string {
		return links[field]
	},
}
