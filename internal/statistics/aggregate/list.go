package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

// Page size limits of the pull request list.
const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// Reasons an open pull request needs attention.
const (
	ReasonStale    = "stale"
	ReasonNoReview = "no_review"
	ReasonLarge    = "large"
)

// List returns one row per pull request matching f, ordered by f.Sort and
// f.Order. Ties fall back to the pull request id so the order is total.
func (e *Engine) List(f filter.Filter) []model.PullRequestRow {
	prs := e.Select(f)
	rows := make([]model.PullRequestRow, 0, len(prs))
	for _, pr := range prs {
		rows = append(rows, e.row(pr))
	}

	desc := f.Order != filter.OrderAsc
	slices.SortStableFunc(rows, func(a, b model.PullRequestRow) int {
		c := compareRows(a, b, f.Sort, desc)
		if c != 0 {
			return c
		}
		return cmp.Compare(a.PullRequestID, b.PullRequestID)
	})
	return rows
}

func (e *Engine) row(pr model.PullRequest) model.PullRequestRow {
	r := model.PullRequestRow{
		PullRequestID: pr.PullRequestID,
		Repository:    pr.Repository,
		Number:        pr.Number,
		Title:         pr.Title,
		Author:        pr.Author,
		State:         pr.State,
		CreatedAt:     pr.CreatedAt,
		MergedAt:      pr.MergedAt,
		Size:          pr.Size(),
		SizeBucket:    model.SizeBucket(pr.Size()),
		Comments:      pr.CommentCount,
		IssueType:     pr.IssueType,
		Reviewers:     e.idx.reviewerNames(pr.PullRequestID),
	}
	if d, ok := pr.CycleTime(); ok {
		h := hours(d)
		r.CycleTimeHours = &h
	}
	if assisted, known := e.idx.AIAssisted(pr); known {
		r.AIAssisted = &assisted
	}
	return r
}

// compareRows orders by field. Missing values sort last in both directions.
func compareRows(a, b model.PullRequestRow, field string, desc bool) int {
	dir := func(c int) int {
		if desc {
			return -c
		}
		return c
	}

	switch field {
	case filter.SortMerged:
		return compareOptional(a.MergedAt, b.MergedAt, func(x, y *time.Time) int {
			return dir(x.Compare(*y))
		})
	case filter.SortCycleTime:
		return compareOptional(a.CycleTimeHours, b.CycleTimeHours, func(x, y *float64) int {
			return dir(cmp.Compare(*x, *y))
		})
	case filter.SortSize:
		return dir(cmp.Compare(a.Size, b.Size))
	case filter.SortComments:
		return dir(cmp.Compare(a.Comments, b.Comments))
	case filter.SortAuthor:
		return dir(strings.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author)))
	case filter.SortRepository:
		return dir(strings.Compare(strings.ToLower(a.Repository), strings.ToLower(b.Repository)))
	default:
		return dir(a.CreatedAt.Compare(b.CreatedAt))
	}
}

func compareOptional[T any](a, b *T, both func(x, y *T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return both(a, b)
}

// Page slices rows for the requested page. Out of range pages are empty.
func Page(rows []model.PullRequestRow, page, perPage int) model.PullRequestPage {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}

	p := model.PullRequestPage{
		Rows:    []model.PullRequestRow{},
		Total:   len(rows),
		Page:    page,
		PerPage: perPage,
		Pages:   (len(rows) + perPage - 1) / perPage,
	}

	start := (page - 1) * perPage
	if start >= len(rows) {
		return p
	}
	end := min(start+perPage, len(rows))
	p.Rows = rows[start:end]
	return p
}

// ListPage returns a page of List(f) with the link for each sortable column.
func (e *Engine) ListPage(f filter.Filter, page, perPage int) model.PullRequestPage {
	p := Page(e.List(f), page, perPage)
	p.Sort = f.Sort
	p.Order = string(f.Order)
	p.SortLinks = make(map[string]string, len(filter.SortFields))
	for _, field := range filter.SortFields {
		p.SortLinks[field] = e.link(f.ToggleSort(field))
	}
	return p
}

// NeedsAttention lists open pull requests in f that are stale, unreviewed or
// extra large, oldest first.
func (e *Engine) NeedsAttention(f filter.Filter) []model.AttentionItem {
	now := e.opts.Now()
	items := make([]model.AttentionItem, 0)

	for _, pr := range e.Select(f) {
		if pr.State != model.StateOpen {
			continue
		}
		var reasons []string
		if e.opts.StaleAfter > 0 && now.Sub(pr.CreatedAt) > e.opts.StaleAfter {
			reasons = append(reasons, ReasonStale)
		}
		if len(e.idx.reviews[pr.PullRequestID]) == 0 {
			reasons = append(reasons, ReasonNoReview)
		}
		if model.SizeBucket(pr.Size()) == model.SizeXL {
			reasons = append(reasons, ReasonLarge)
		}
		if len(reasons) == 0 {
			continue
		}
		items = append(items, model.AttentionItem{Row: e.row(pr), Reasons: reasons})
	}

	slices.SortStableFunc(items, func(a, b model.AttentionItem) int {
		if c := a.Row.CreatedAt.Compare(b.Row.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Row.PullRequestID, b.Row.PullRequestID)
	})
	return items
}
