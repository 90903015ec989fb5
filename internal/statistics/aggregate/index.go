package aggregate

import (
	"sort"
	"time"

	"github.com/festy23/teampulse/internal/statistics/model"
)

// index holds the joins the predicate and aggregates need, keyed by pull
// request id. Rows belonging to another team are dropped while building.
type index struct {
	reviews     map[string][]model.Review
	reviewers   map[string]map[string]int
	disclosures map[string]model.AuthorDisclosure
}

func newIndex(ds *model.Dataset) *index {
	idx := &index{
		reviews:     make(map[string][]model.Review),
		reviewers:   make(map[string]map[string]int),
		disclosures: make(map[string]model.AuthorDisclosure),
	}

	for _, r := range ds.Reviews {
		if r.TeamID != ds.TeamID {
			continue
		}
		idx.reviews[r.PullRequestID] = append(idx.reviews[r.PullRequestID], r)
		byReviewer, ok := idx.reviewers[r.PullRequestID]
		if !ok {
			byReviewer = make(map[string]int)
			idx.reviewers[r.PullRequestID] = byReviewer
		}
		byReviewer[r.Reviewer]++
	}
	for id := range idx.reviews {
		rs := idx.reviews[id]
		sort.SliceStable(rs, func(i, j int) bool {
			if !rs[i].SubmittedAt.Equal(rs[j].SubmittedAt) {
				return rs[i].SubmittedAt.Before(rs[j].SubmittedAt)
			}
			return rs[i].ReviewID < rs[j].ReviewID
		})
	}

	for _, d := range ds.Disclosures {
		if d.TeamID != ds.TeamID {
			continue
		}
		idx.disclosures[d.PullRequestID] = d
	}

	return idx
}

// ReviewedBy implements filter.Facts.
func (idx *index) ReviewedBy(pullRequestID, reviewer string) bool {
	return idx.reviewers[pullRequestID][reviewer] > 0
}

// AIAssisted implements filter.Facts. The author's disclosure wins over the
// flag synced with the pull request.
func (idx *index) AIAssisted(pr model.PullRequest) (bool, bool) {
	if d, ok := idx.disclosures[pr.PullRequestID]; ok {
		return d.AIAssisted, true
	}
	if pr.IsAIAssisted != nil {
		return *pr.IsAIAssisted, true
	}
	return false, false
}

func (idx *index) firstReview(pullRequestID string) (time.Time, bool) {
	rs := idx.reviews[pullRequestID]
	if len(rs) == 0 {
		return time.Time{}, false
	}
	return rs[0].SubmittedAt, true
}

func (idx *index) reviewerNames(pullRequestID string) []string {
	byReviewer := idx.reviewers[pullRequestID]
	names := make([]string, 0, len(byReviewer))
	for name := range byReviewer {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
