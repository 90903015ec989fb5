// Package aggregate computes metrics over a team's dataset. Every result is
// a pure function of the dataset and a filter, and every result selects its
// pull requests through Engine.Select.
package aggregate

import (
	"math"
	"time"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

// TieBreak decides the order of leaderboard entries with equal accuracy.
type TieBreak string

// Tie break policies.
const (
	// TieBreakVolume orders by accuracy desc, scored guesses desc, reviewer asc.
	TieBreakVolume TieBreak = "volume"
	// TieBreakName orders by accuracy desc, reviewer asc.
	TieBreakName TieBreak = "name"
)

// Options tune presentation details of the results.
type Options struct {
	PercentDecimals int
	TieBreak        TieBreak
	// StaleAfter is the age after which an open pull request needs attention.
	StaleAfter time.Duration
	// LinkBase is the path drill-down links point to.
	LinkBase string
	Now      func() time.Time
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		PercentDecimals: 1,
		TieBreak:        TieBreakVolume,
		StaleAfter:      72 * time.Hour,
		Now:             time.Now,
	}
}

// Engine evaluates filters against one team's dataset.
type Engine struct {
	ds   *model.Dataset
	idx  *index
	opts Options
}

// New indexes ds. The dataset must not be modified afterwards.
func New(ds *model.Dataset, opts Options) *Engine {
	if ds == nil {
		ds = &model.Dataset{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TieBreak == "" {
		opts.TieBreak = TieBreakVolume
	}
	return &Engine{ds: ds, idx: newIndex(ds), opts: opts}
}

// Facts exposes the joins used by the predicate.
func (e *Engine) Facts() filter.Facts {
	return e.idx
}

// Select returns the pull requests matching f in dataset order.
func (e *Engine) Select(f filter.Filter) []model.PullRequest {
	out := make([]model.PullRequest, 0)
	for _, pr := range e.ds.PullRequests {
		if f.Matches(pr, e.idx) {
			out = append(out, pr)
		}
	}
	return out
}

// Count is the number of distinct pull requests matching f.
func (e *Engine) Count(f filter.Filter) int {
	return ids(e.Select(f)).Len()
}

func ids(prs []model.PullRequest) IDSet {
	set := make(IDSet, len(prs))
	for _, pr := range prs {
		set.Add(pr.PullRequestID)
	}
	return set
}

func (e *Engine) link(f filter.Filter) string {
	return f.URL(e.opts.LinkBase)
}

// Percent returns 100*num/den rounded to decimals places. A zero
// denominator means no data.
func Percent(num, den, decimals int) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(100*float64(num)/float64(den)*scale) / scale, true
}

func hours(d time.Duration) float64 {
	return d.Hours()
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.sum / float64(m.n), true
}
