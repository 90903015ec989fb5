package fragment

import (
	"strconv"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

// LeaderRow is a leaderboard entry with its medal.
type LeaderRow struct {
	model.LeaderboardEntry
	Medal string
}

type leaderboardView struct {
	Rows           []LeaderRow
	PendingGuesses int
}

type snapshotView struct {
	*model.MetricsSnapshot
	Range string
}

type breakdownView struct {
	Title string
	model.Breakdown
}

type seriesView struct {
	Series []model.TimeSeries
}

type attentionView struct {
	Items []model.AttentionItem
}

type listView struct {
	*model.PullRequestPage
	PrevURL string
	NextURL string
}

// viewFor adapts data to the container's template and reports emptiness.
// Unexpected data types render as empty.
func viewFor(containerID string, f filter.Filter, data any) (any, bool) {
	switch containerID {
	case KeyMetrics, ReviewDistribution, IssueTypes, SizeDistribution, Contributors:
		s, ok := data.(*model.MetricsSnapshot)
		if !ok || s == nil {
			if containerID == KeyMetrics || containerID == ReviewDistribution {
				return nil, true
			}
			return breakdownView{}, true
		}
		return snapshotFor(containerID, f, s)

	case Leaderboard:
		lb, ok := data.(*model.Leaderboard)
		if !ok || lb == nil || lb.Empty {
			v := leaderboardView{}
			if lb != nil {
				v.PendingGuesses = lb.PendingGuesses
			}
			return v, true
		}
		rows := make([]LeaderRow, 0, len(lb.Entries))
		for _, e := range lb.Entries {
			rows = append(rows, LeaderRow{LeaderboardEntry: e, Medal: Medal(e.Rank)})
		}
		return leaderboardView{Rows: rows, PendingGuesses: lb.PendingGuesses}, false

	case TrendChart:
		series, _ := data.([]model.TimeSeries)
		empty := true
		for _, s := range series {
			for _, p := range s.Points {
				if p.HasData {
					empty = false
				}
			}
		}
		return seriesView{Series: series}, empty

	case NeedsAttention:
		items, _ := data.([]model.AttentionItem)
		return attentionView{Items: items}, len(items) == 0

	case PRList:
		p, ok := data.(*model.PullRequestPage)
		if !ok || p == nil {
			return listView{PullRequestPage: &model.PullRequestPage{}}, true
		}
		v := listView{PullRequestPage: p}
		if p.Page > 1 {
			v.PrevURL = pageURL(f, p.Page-1)
		}
		if p.Page < p.Pages {
			v.NextURL = pageURL(f, p.Page+1)
		}
		return v, p.Total == 0
	}
	return nil, true
}

func snapshotFor(containerID string, f filter.Filter, s *model.MetricsSnapshot) (any, bool) {
	switch containerID {
	case ReviewDistribution:
		return snapshotView{MetricsSnapshot: s, Range: f.Range.Label()}, len(s.ReviewerWorkload) == 0
	case IssueTypes:
		return breakdownView{Title: "PR types", Breakdown: s.IssueTypes}, s.IssueTypes.Total == 0
	case SizeDistribution:
		return breakdownView{Title: "PR size", Breakdown: s.SizeDistribution}, s.SizeDistribution.Total == 0
	case Contributors:
		return breakdownView{Title: "Contributors", Breakdown: s.Contributors}, s.Contributors.Total == 0
	}
	return snapshotView{MetricsSnapshot: s, Range: f.Range.Label()}, s.TotalPRs == 0
}

func pageURL(f filter.Filter, page int) string {
	v := f.Values()
	v.Set("page", strconv.Itoa(page))
	return partialPath(f.TeamID, PRList) + "?" + v.Encode()
}
