// Package filter implements the filter context shared by every metrics query:
// parsing it from URL query parameters, encoding it back, and the single
// predicate that decides whether a pull request belongs to it.
package filter

import (
	"net/url"
	"strings"
	"time"

	"github.com/festy23/teampulse/internal/statistics/model"
)

// Query parameter names.
const (
	ParamDays      = "days"
	ParamPreset    = "preset"
	ParamDateFrom  = "date_from"
	ParamDateTo    = "date_to"
	ParamRepo      = "repo"
	ParamAuthor    = "author"
	ParamReviewer  = "reviewer"
	ParamAI        = "ai"
	ParamState     = "state"
	ParamIssueType = "issue_type"
	ParamSize      = "size"
	ParamSort      = "sort"
	ParamOrder     = "order"
)

// AIStatus selects pull requests by their effective AI assistance.
type AIStatus string

// AI statuses. AIAny is the zero value and matches unknown status too.
const (
	AIAny AIStatus = ""
	AIYes AIStatus = "yes"
	AINo  AIStatus = "no"
)

// Filter is an immutable filter context. Methods return modified copies.
type Filter struct {
	TeamID string
	Range  Range
	// Start and End are the resolved window [Start, End) in UTC.
	Start time.Time
	End   time.Time

	Repository string
	Author     string
	Reviewer   string
	IssueType  string
	Size       string
	AI         AIStatus
	State      model.PRState

	Sort  string
	Order Order
}

// Default returns the filter used when no parameters are given.
func Default(teamID string, now time.Time, defaultDays int) Filter {
	return Parse(teamID, nil, now, defaultDays)
}

// Parse builds a filter from query parameters. Malformed values never fail:
// they are ignored and the corresponding default applies.
func Parse(teamID string, q url.Values, now time.Time, defaultDays int) Filter {
	if defaultDays < 1 || defaultDays > MaxDays {
		defaultDays = DefaultDays
	}

	f := Filter{
		TeamID: teamID,
		Sort:   SortCreated,
		Order:  OrderDesc,
	}

	f.Range = fallbackRange(q, defaultDays)
	if from, to, ok := parseDates(clean(q.Get(ParamDateFrom)), clean(q.Get(ParamDateTo)), now); ok {
		f.Range = Range{From: from, To: to}
	}
	f.Start, f.End = f.Range.resolve(now)

	f.Repository = clean(q.Get(ParamRepo))
	f.Author = clean(q.Get(ParamAuthor))
	f.Reviewer = clean(q.Get(ParamReviewer))
	f.IssueType = clean(q.Get(ParamIssueType))
	if size := strings.ToUpper(clean(q.Get(ParamSize))); model.ValidSizeBucket(size) {
		f.Size = size
	}

	switch AIStatus(strings.ToLower(clean(q.Get(ParamAI)))) {
	case AIYes:
		f.AI = AIYes
	case AINo:
		f.AI = AINo
	}

	if state := model.PRState(strings.ToLower(clean(q.Get(ParamState)))); state.Valid() {
		f.State = state
	}

	if sort := strings.ToLower(clean(q.Get(ParamSort))); validSort(sort) {
		f.Sort = sort
	}
	if order := Order(strings.ToLower(clean(q.Get(ParamOrder)))); order == OrderAsc || order == OrderDesc {
		f.Order = order
	}

	return f
}

func fallbackRange(q url.Values, defaultDays int) Range {
	if p := strings.ToLower(clean(q.Get(ParamPreset))); validPreset(p) {
		return Range{Preset: p}
	}
	if days, ok := parseDays(clean(q.Get(ParamDays))); ok {
		return Range{Days: days}
	}
	return Range{Days: defaultDays}
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

// Values encodes the filter as query parameters. Unset dimensions are
// omitted entirely; the sort pair is omitted when it is the default.
func (f Filter) Values() url.Values {
	v := url.Values{}

	switch {
	case f.Range.Explicit():
		v.Set(ParamDateFrom, f.Range.From.Format(DateLayout))
		v.Set(ParamDateTo, f.Range.To.Format(DateLayout))
	case f.Range.Preset != "":
		v.Set(ParamPreset, f.Range.Preset)
	default:
		v.Set(ParamDays, itoa(f.Range.Days))
	}

	setIf(v, ParamRepo, f.Repository)
	setIf(v, ParamAuthor, f.Author)
	setIf(v, ParamReviewer, f.Reviewer)
	setIf(v, ParamIssueType, f.IssueType)
	setIf(v, ParamSize, f.Size)
	setIf(v, ParamAI, string(f.AI))
	setIf(v, ParamState, string(f.State))

	if f.Sort != SortCreated || f.Order != OrderDesc {
		v.Set(ParamSort, f.Sort)
		v.Set(ParamOrder, string(f.Order))
	}

	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// Encode returns Values as a sorted query string.
func (f Filter) Encode() string {
	return f.Values().Encode()
}

// TeamPath builds a path under a team's prefix with the team id escaped as
// one segment.
func TeamPath(teamID string, elem ...string) string {
	return "/a/" + url.PathEscape(teamID) + "/" + strings.Join(elem, "/")
}

// URL joins base and the encoded filter.
func (f Filter) URL(base string) string {
	q := f.Encode()
	if q == "" {
		return base
	}
	return base + "?" + q
}

// Window returns the resolved window.
func (f Filter) Window() model.Window {
	return model.Window{Start: f.Start, End: f.End}
}

// WithRepository returns a copy scoped to repo. An empty repo clears the scope.
func (f Filter) WithRepository(repo string) Filter {
	f.Repository = clean(repo)
	return f
}

// WithAuthor returns a copy scoped to author.
func (f Filter) WithAuthor(author string) Filter {
	f.Author = clean(author)
	return f
}

// WithReviewer returns a copy scoped to reviewer.
func (f Filter) WithReviewer(reviewer string) Filter {
	f.Reviewer = clean(reviewer)
	return f
}

// WithIssueType returns a copy scoped to issueType. Use model.IssueTypeNone
// for untagged pull requests.
func (f Filter) WithIssueType(issueType string) Filter {
	f.IssueType = clean(issueType)
	return f
}

// WithSize returns a copy scoped to a size bucket.
func (f Filter) WithSize(bucket string) Filter {
	f.Size = bucket
	return f
}

// WithState returns a copy scoped to state.
func (f Filter) WithState(state model.PRState) Filter {
	f.State = state
	return f
}

// WithAI returns a copy scoped to the AI status.
func (f Filter) WithAI(status AIStatus) Filter {
	f.AI = status
	return f
}
