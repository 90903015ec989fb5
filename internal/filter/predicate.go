package filter

import (
	"github.com/festy23/teampulse/internal/statistics/model"
)

// Facts answers the questions about a pull request that need other rows.
type Facts interface {
	// ReviewedBy reports whether reviewer submitted at least one review.
	ReviewedBy(pullRequestID, reviewer string) bool
	// AIAssisted returns the effective AI assistance and whether it is known.
	AIAssisted(pr model.PullRequest) (assisted bool, known bool)
}

// Matches is the canonical membership test. Every aggregate and every list
// selects pull requests through it.
func (f Filter) Matches(pr model.PullRequest, facts Facts) bool {
	if pr.TeamID != f.TeamID {
		return false
	}

	ref := pr.ReferenceTime()
	if ref.Before(f.Start) || !ref.Before(f.End) {
		return false
	}

	if f.Repository != "" && pr.Repository != f.Repository {
		return false
	}
	if f.Author != "" && pr.Author != f.Author {
		return false
	}
	if f.State != "" && pr.State != f.State {
		return false
	}

	if f.IssueType != "" {
		if f.IssueType == model.IssueTypeNone {
			if pr.IssueType != "" && pr.IssueType != model.IssueTypeNone {
				return false
			}
		} else if pr.IssueType != f.IssueType {
			return false
		}
	}

	if f.Size != "" && model.SizeBucket(pr.Size()) != f.Size {
		return false
	}

	if f.AI != AIAny {
		assisted, known := facts.AIAssisted(pr)
		if !known || assisted != (f.AI == AIYes) {
			return false
		}
	}

	if f.Reviewer != "" && !facts.ReviewedBy(pr.PullRequestID, f.Reviewer) {
		return false
	}

	return true
}
