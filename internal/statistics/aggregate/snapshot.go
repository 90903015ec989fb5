package aggregate

import (
	"sort"
	"strings"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

const untaggedLabel = "Untagged"

// Compute builds the metrics snapshot for f. Every headline count equals
// the size of the list its link leads to.
func (e *Engine) Compute(f filter.Filter) model.MetricsSnapshot {
	prs := e.Select(f)
	all := ids(prs)

	mergedFilter := f.WithState(model.StateMerged)
	merged := e.Select(mergedFilter)
	openFilter := f.WithState(model.StateOpen)
	aiFilter := mergedFilter.WithAI(filter.AIYes)
	aiCount := e.Count(aiFilter)

	s := model.MetricsSnapshot{
		TeamID:          f.TeamID,
		Window:          f.Window(),
		Query:           f.Encode(),
		TotalPRs:        all.Len(),
		TotalPRsLink:    e.link(f),
		OpenPRs:         e.Count(openFilter),
		PRsMerged:       ids(merged).Len(),
		PRsMergedLink:   e.link(mergedFilter),
		AIAssistedCount: aiCount,
		AIAssistedLink:  e.link(aiFilter),
	}

	var cycle mean
	for _, pr := range merged {
		if d, ok := pr.CycleTime(); ok {
			cycle.add(hours(d))
		}
	}
	s.AvgCycleTimeHours, s.HasCycleTime = cycle.value()

	var review mean
	for _, pr := range prs {
		if first, ok := e.idx.firstReview(pr.PullRequestID); ok && !first.Before(pr.CreatedAt) {
			review.add(hours(first.Sub(pr.CreatedAt)))
		}
	}
	s.AvgReviewTimeHours, s.HasReviewTime = review.value()

	// The ratio ignores the AI dimension of f: it describes the merged set.
	ratioBase := e.Count(mergedFilter.WithAI(filter.AIAny))
	if ratioBase > 0 {
		s.AIAssistedRatio = float64(aiCount) / float64(ratioBase)
		s.AIAssistedPercent, s.HasAIRatio = Percent(aiCount, ratioBase, e.opts.PercentDecimals)
	}

	s.SizeDistribution = e.sizeDistribution(f, prs)
	s.IssueTypes = e.issueTypes(f, prs)
	s.Contributors = e.contributors(f, prs)
	s.ReviewerWorkload, s.ReviewSubmissions = e.reviewerWorkload(f, prs)

	return s
}

func (e *Engine) breakdown(groups GroupedSet, keys []string, label func(string) string, link func(string) filter.Filter) model.Breakdown {
	b := model.Breakdown{Items: make([]model.BreakdownItem, 0, len(keys))}
	for _, k := range keys {
		b.Total += groups.Count(k)
	}
	for _, k := range keys {
		count := groups.Count(k)
		item := model.BreakdownItem{
			Key:   k,
			Label: label(k),
			Count: count,
			Link:  e.link(link(k)),
		}
		item.Percent, item.HasPercent = Percent(count, b.Total, e.opts.PercentDecimals)
		b.Items = append(b.Items, item)
	}
	return b
}

func (e *Engine) sizeDistribution(f filter.Filter, prs []model.PullRequest) model.Breakdown {
	groups := GroupedSet{}
	for _, pr := range prs {
		groups.Add(model.SizeBucket(pr.Size()), pr.PullRequestID)
	}
	return e.breakdown(groups, model.SizeBuckets, identity, f.WithSize)
}

func (e *Engine) issueTypes(f filter.Filter, prs []model.PullRequest) model.Breakdown {
	groups := GroupedSet{}
	for _, pr := range prs {
		groups.Add(issueTypeKey(pr), pr.PullRequestID)
	}
	label := func(k string) string {
		if k == model.IssueTypeNone {
			return untaggedLabel
		}
		return k
	}
	return e.breakdown(groups, groups.KeysByCount(), label, f.WithIssueType)
}

func (e *Engine) contributors(f filter.Filter, prs []model.PullRequest) model.Breakdown {
	groups := GroupedSet{}
	for _, pr := range prs {
		if blank(pr.Author) {
			continue
		}
		groups.Add(pr.Author, pr.PullRequestID)
	}
	return e.breakdown(groups, groups.KeysByCount(), identity, f.WithAuthor)
}

// reviewerWorkload counts distinct pull requests per reviewer. With a
// reviewer in f only that reviewer is reported, so each link reproduces
// its count.
func (e *Engine) reviewerWorkload(f filter.Filter, prs []model.PullRequest) ([]model.ReviewerLoad, int) {
	groups := GroupedSet{}
	submissions := map[string]int{}
	total := 0
	for _, pr := range prs {
		for _, r := range e.idx.reviews[pr.PullRequestID] {
			if blank(r.Reviewer) || (f.Reviewer != "" && r.Reviewer != f.Reviewer) {
				continue
			}
			groups.Add(r.Reviewer, pr.PullRequestID)
			submissions[r.Reviewer]++
			total++
		}
	}

	loads := make([]model.ReviewerLoad, 0, len(groups))
	for _, name := range groups.KeysByCount() {
		loads = append(loads, model.ReviewerLoad{
			Reviewer:    name,
			PRsReviewed: groups.Count(name),
			Submissions: submissions[name],
			Link:        e.link(f.WithReviewer(name)),
		})
	}
	return loads, total
}

func issueTypeKey(pr model.PullRequest) string {
	if pr.IssueType == "" || pr.IssueType == model.IssueTypeNone {
		return model.IssueTypeNone
	}
	return pr.IssueType
}

// blank reports a person key that cannot be linked: an empty author or
// reviewer scope matches everyone.
func blank(name string) bool {
	return strings.TrimSpace(name) == ""
}

func identity(s string) string {
	return s
}

// sortedKeys returns map keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
