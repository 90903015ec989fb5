package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

// Granularity is the width of a trend bucket.
type Granularity string

// Granularities.
const (
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts week/weekly and month/monthly. Empty means week.
func ParseGranularity(raw string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "week", "weekly":
		return Week, nil
	case "month", "monthly":
		return Month, nil
	}
	return "", fmt.Errorf("%w: %s", model.ErrUnknownGranularity, raw)
}

// Metric ids.
const (
	MetricPRsMerged  = "prs_merged"
	MetricCycleTime  = "cycle_time"
	MetricReviewTime = "review_time"
	MetricAIAdoption = "ai_adoption"
	MetricPRSize     = "pr_size"
	MetricPRsOpened  = "prs_opened"
)

type metricDef struct {
	label string
	unit  string
	// byMerge buckets merged pull requests by merge time; otherwise all
	// selected pull requests are bucketed by creation time.
	byMerge bool
}

var metricDefs = map[string]metricDef{
	MetricPRsMerged:  {label: "PRs merged", unit: "count", byMerge: true},
	MetricCycleTime:  {label: "Cycle time", unit: "hours", byMerge: true},
	MetricAIAdoption: {label: "AI adoption", unit: "percent", byMerge: true},
	MetricReviewTime: {label: "Review time", unit: "hours"},
	MetricPRSize:     {label: "PR size", unit: "lines"},
	MetricPRsOpened:  {label: "PRs opened", unit: "count"},
}

// ParseMetrics validates metric ids. Blank and repeated ids are dropped;
// the result keeps first occurrence order.
func ParseMetrics(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		if _, ok := metricDefs[id]; !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownMetric, id)
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, model.ErrNoMetrics
	}
	if len(out) > model.MaxSeriesMetrics {
		return nil, model.ErrTooManyMetrics
	}
	return out, nil
}

type bucket struct {
	period string
	start  time.Time
	end    time.Time
}

func startOf(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if g == Month {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func next(t time.Time, g Granularity) time.Time {
	if g == Month {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 7)
}

func periodLabel(t time.Time, g Granularity) string {
	if g == Month {
		return t.Format("2006-01")
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// buckets covers [start, end) with consecutive aligned buckets.
func buckets(start, end time.Time, g Granularity) []bucket {
	var out []bucket
	for b := startOf(start, g); b.Before(end); b = next(b, g) {
		out = append(out, bucket{period: periodLabel(b, g), start: b, end: next(b, g)})
	}
	return out
}

func locate(bs []bucket, t time.Time) int {
	for i, b := range bs {
		if !t.Before(b.start) && t.Before(b.end) {
			return i
		}
	}
	return -1
}

// BuildSeries returns one series per requested metric over the window of f.
// Empty buckets are present with HasData false. When a metric buckets by
// creation time, leading buckets are added back to the earliest creation
// among the selected pull requests so none of them is dropped.
func (e *Engine) BuildSeries(f filter.Filter, g Granularity, metrics []string) ([]model.TimeSeries, error) {
	if g != Week && g != Month {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownGranularity, g)
	}
	metricIDs, err := ParseMetrics(metrics)
	if err != nil {
		return nil, err
	}

	prs := e.Select(f)
	bs := buckets(seriesStart(f.Start, prs, metricIDs), f.End, g)

	out := make([]model.TimeSeries, 0, len(metricIDs))
	for _, id := range metricIDs {
		out = append(out, e.series(id, prs, bs))
	}
	return out, nil
}

// seriesStart is the earliest instant any of metrics places a pull request
// of prs at, and never after start.
func seriesStart(start time.Time, prs []model.PullRequest, metrics []string) time.Time {
	byCreation := false
	for _, id := range metrics {
		if !metricDefs[id].byMerge {
			byCreation = true
		}
	}
	if !byCreation {
		return start
	}
	for _, pr := range prs {
		if pr.CreatedAt.Before(start) {
			start = pr.CreatedAt
		}
	}
	return start
}

func (e *Engine) series(id string, prs []model.PullRequest, bs []bucket) model.TimeSeries {
	def := metricDefs[id]

	type acc struct {
		seen  IDSet
		mean  mean
		yes   int
		total int
	}
	accs := make([]acc, len(bs))
	for i := range accs {
		accs[i].seen = IDSet{}
	}

	for _, pr := range prs {
		at := pr.CreatedAt
		if def.byMerge {
			if pr.State != model.StateMerged || pr.MergedAt == nil {
				continue
			}
			at = *pr.MergedAt
		}
		i := locate(bs, at)
		if i < 0 || !accs[i].seen.Add(pr.PullRequestID) {
			continue
		}
		a := &accs[i]

		switch id {
		case MetricCycleTime:
			if d, ok := pr.CycleTime(); ok {
				a.mean.add(hours(d))
			}
		case MetricReviewTime:
			if first, ok := e.idx.firstReview(pr.PullRequestID); ok && !first.Before(pr.CreatedAt) {
				a.mean.add(hours(first.Sub(pr.CreatedAt)))
			}
		case MetricPRSize:
			a.mean.add(float64(pr.Size()))
		case MetricAIAdoption:
			a.total++
			if assisted, known := e.idx.AIAssisted(pr); known && assisted {
				a.yes++
			}
		}
	}

	ts := model.TimeSeries{
		Metric: id,
		Label:  def.label,
		Unit:   def.unit,
		Points: make([]model.SeriesPoint, 0, len(bs)),
	}
	for i, b := range bs {
		a := accs[i]
		p := model.SeriesPoint{Period: b.period, Start: b.start, End: b.end, Count: a.seen.Len()}
		switch id {
		case MetricPRsMerged, MetricPRsOpened:
			p.Value = float64(p.Count)
			p.HasData = p.Count > 0
		case MetricAIAdoption:
			p.Value, p.HasData = Percent(a.yes, a.total, e.opts.PercentDecimals)
		default:
			p.Value, p.HasData = a.mean.value()
		}
		ts.Points = append(ts.Points, p)
	}
	return ts
}

// Breakdown dimensions.
const (
	DimensionIssueType  = "issue_type"
	DimensionTechnology = "technology"
)

const unknownTechnology = "unknown"

// BuildBreakdownSeries counts pull requests per dimension key and bucket.
// Pull requests are placed by their reference time, so every pull request
// in f lands in exactly one bucket.
func (e *Engine) BuildBreakdownSeries(f filter.Filter, g Granularity, dimension string) (model.BreakdownSeries, error) {
	if g != Week && g != Month {
		return model.BreakdownSeries{}, fmt.Errorf("%w: %s", model.ErrUnknownGranularity, g)
	}

	var key func(model.PullRequest) string
	switch dimension {
	case DimensionIssueType:
		key = issueTypeKey
	case DimensionTechnology:
		key = func(pr model.PullRequest) string {
			if pr.Language == "" {
				return unknownTechnology
			}
			return pr.Language
		}
	default:
		return model.BreakdownSeries{}, fmt.Errorf("%w: %s", model.ErrUnknownDimension, dimension)
	}

	bs := buckets(f.Start, f.End, g)
	perBucket := make([]GroupedSet, len(bs))
	for i := range perBucket {
		perBucket[i] = GroupedSet{}
	}
	overall := GroupedSet{}

	for _, pr := range e.Select(f) {
		i := locate(bs, pr.ReferenceTime())
		if i < 0 {
			continue
		}
		k := key(pr)
		perBucket[i].Add(k, pr.PullRequestID)
		overall.Add(k, pr.PullRequestID)
	}

	out := model.BreakdownSeries{
		Dimension: dimension,
		Keys:      overall.KeysByCount(),
		Points:    make([]model.BreakdownPoint, 0, len(bs)),
	}
	for i, b := range bs {
		counts := make(map[string]int, len(perBucket[i]))
		total := 0
		for _, k := range sortedKeys(perBucket[i]) {
			counts[k] = perBucket[i].Count(k)
			total += counts[k]
		}
		out.Points = append(out.Points, model.BreakdownPoint{
			Period: b.period,
			Start:  b.start,
			End:    b.end,
			Counts: counts,
			Total:  total,
		})
	}
	return out, nil
}
