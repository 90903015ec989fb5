package aggregate

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

// follow parses a drill-down link and counts the list it leads to.
func follow(t *testing.T, e *Engine, link string) int {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	f := filter.Parse(team, u.Query(), now, 30)
	return len(e.List(f))
}

func TestCompute_AIAssistedRatio(t *testing.T) {
	ds := &model.Dataset{TeamID: team}
	for i := 0; i < 10; i++ {
		pr := mergedPR(fmt.Sprintf("pr-%d", i), ago(days(i+2)), ago(days(i+1)))
		pr.IsAIAssisted = boolPtr(i < 4)
		ds.PullRequests = append(ds.PullRequests, pr)
	}
	old := mergedPR("old", ago(days(50)), ago(days(45)))
	old.IsAIAssisted = boolPtr(true)
	open := openPR("open", ago(days(1)))
	open.IsAIAssisted = boolPtr(true)
	ds.PullRequests = append(ds.PullRequests, old, open)

	e := New(ds, testOptions())
	s := e.Compute(parse("days=30"))

	assert.Equal(t, 10, s.PRsMerged)
	assert.Equal(t, 4, s.AIAssistedCount)
	assert.InDelta(t, 0.4, s.AIAssistedRatio, 1e-12)
	assert.InDelta(t, 40.0, s.AIAssistedPercent, 1e-12)
	assert.True(t, s.HasAIRatio)
	assert.Equal(t, 4, follow(t, e, s.AIAssistedLink))
	assert.Equal(t, 10, follow(t, e, s.PRsMergedLink))
	assert.Equal(t, 11, s.TotalPRs)
	assert.Equal(t, 1, s.OpenPRs)
}

func TestCompute_DisclosureOverridesFlag(t *testing.T) {
	pr := mergedPR("pr-1", ago(days(3)), ago(days(2)))
	pr.IsAIAssisted = boolPtr(false)
	ds := &model.Dataset{
		TeamID:       team,
		PullRequests: []model.PullRequest{pr},
		Disclosures:  []model.AuthorDisclosure{disclosure("pr-1", true)},
	}

	s := New(ds, testOptions()).Compute(parse("days=7"))
	assert.Equal(t, 1, s.AIAssistedCount)
	assert.InDelta(t, 1.0, s.AIAssistedRatio, 1e-12)
}

func TestCompute_ReviewerWorkloadCountsDistinctPRs(t *testing.T) {
	ds := &model.Dataset{
		TeamID: team,
		PullRequests: []model.PullRequest{
			mergedPR("pr-1", ago(days(5)), ago(days(4))),
			mergedPR("pr-2", ago(days(5)), ago(days(3))),
		},
		Reviews: []model.Review{
			review("r1", "pr-1", "bob", ago(days(5)-time.Hour)),
			review("r2", "pr-1", "bob", ago(days(5)-2*time.Hour)),
			review("r3", "pr-1", "bob", ago(days(5)-3*time.Hour)),
			review("r4", "pr-2", "carol", ago(days(5)-time.Hour)),
		},
	}

	e := New(ds, testOptions())
	s := e.Compute(parse("days=30"))

	require.Len(t, s.ReviewerWorkload, 2)
	bob := s.ReviewerWorkload[0]
	assert.Equal(t, "bob", bob.Reviewer)
	assert.Equal(t, 1, bob.PRsReviewed)
	assert.Equal(t, 3, bob.Submissions)
	assert.Equal(t, 1, follow(t, e, bob.Link))
	assert.Equal(t, 4, s.ReviewSubmissions)
	assert.InDelta(t, 1.0, s.AvgReviewTimeHours, 1e-9)
	assert.True(t, s.HasReviewTime)
}

func TestCompute_EmptyResultIsZeroValued(t *testing.T) {
	e := New(&model.Dataset{TeamID: team}, testOptions())
	s := e.Compute(parse("days=7"))

	assert.Zero(t, s.TotalPRs)
	assert.Zero(t, s.PRsMerged)
	assert.False(t, s.HasCycleTime)
	assert.False(t, s.HasReviewTime)
	assert.False(t, s.HasAIRatio)
	assert.Zero(t, s.AIAssistedPercent)
	assert.NotNil(t, s.IssueTypes.Items)
	assert.Empty(t, s.IssueTypes.Items)
	assert.Empty(t, s.ReviewerWorkload)
	require.Len(t, s.SizeDistribution.Items, len(model.SizeBuckets))
	for _, item := range s.SizeDistribution.Items {
		assert.Zero(t, item.Count)
		assert.False(t, item.HasPercent)
	}
}

func TestCompute_CycleTimeInHours(t *testing.T) {
	ds := &model.Dataset{
		TeamID: team,
		PullRequests: []model.PullRequest{
			mergedPR("pr-1", ago(days(3)), ago(days(3)-90*time.Minute)),
			mergedPR("pr-2", ago(days(3)), ago(days(3)-30*time.Minute)),
		},
	}

	s := New(ds, testOptions()).Compute(parse("days=7"))
	assert.True(t, s.HasCycleTime)
	assert.InDelta(t, 1.0, s.AvgCycleTimeHours, 1e-9)
}

func TestCompute_BreakdownsSumToTotal(t *testing.T) {
	e := New(richDataset(), testOptions())

	for _, raw := range consistencyFilters {
		t.Run(raw, func(t *testing.T) {
			s := e.Compute(parse(raw))
			for name, b := range map[string]model.Breakdown{
				"issue types":  s.IssueTypes,
				"contributors": s.Contributors,
				"sizes":        s.SizeDistribution,
			} {
				sum := 0
				for _, item := range b.Items {
					sum += item.Count
				}
				assert.Equal(t, b.Total, sum, name)
				assert.Equal(t, s.TotalPRs, b.Total, name)
			}
		})
	}
}

var consistencyFilters = []string{
	"days=7",
	"days=30",
	"days=90",
	"days=365",
	"preset=this_year",
	"preset=12_months",
	"date_from=2025-02-01&date_to=2025-04-30",
	"days=90&repo=api",
	"days=90&repo=web&author=bob",
	"days=90&reviewer=erin",
	"days=90&reviewer=frank&state=merged",
	"days=90&ai=yes",
	"days=90&ai=no&repo=infra",
	"days=90&state=open",
	"days=90&state=closed",
	"days=90&issue_type=none",
	"days=90&issue_type=feature&sort=size&order=asc",
	"days=90&size=XL",
	"days=365&author=carol&ai=yes&state=merged",
	"days=abc&repo=",
}

func TestCompute_EveryLinkReproducesItsCount(t *testing.T) {
	e := New(richDataset(), testOptions())

	for _, raw := range consistencyFilters {
		t.Run(raw, func(t *testing.T) {
			s := e.Compute(parse(raw))

			assert.Equal(t, s.TotalPRs, follow(t, e, s.TotalPRsLink), "total")
			assert.Equal(t, s.PRsMerged, follow(t, e, s.PRsMergedLink), "merged")
			assert.Equal(t, s.AIAssistedCount, follow(t, e, s.AIAssistedLink), "ai assisted")

			for _, b := range []model.Breakdown{s.IssueTypes, s.Contributors, s.SizeDistribution} {
				for _, item := range b.Items {
					assert.Equal(t, item.Count, follow(t, e, item.Link), item.Key)
				}
			}
			for _, load := range s.ReviewerWorkload {
				assert.Equal(t, load.PRsReviewed, follow(t, e, load.Link), load.Reviewer)
				assert.LessOrEqual(t, load.PRsReviewed, load.Submissions)
			}
		})
	}
}

func TestCompute_SkipsBlankPeople(t *testing.T) {
	anonymous := openPR("pr-anon", ago(days(3)))
	anonymous.Author = ""
	spaced := openPR("pr-spaced", ago(days(4)))
	spaced.Author = "  "
	ds := &model.Dataset{
		TeamID:       team,
		PullRequests: []model.PullRequest{openPR("pr-1", ago(days(2))), anonymous, spaced},
		Reviews: []model.Review{
			review("r1", "pr-1", "carol", ago(days(1))),
			review("r2", "pr-1", "", ago(days(1))),
		},
	}
	e := New(ds, testOptions())
	s := e.Compute(parse("days=30"))

	assert.Equal(t, 3, s.TotalPRs)
	require.Len(t, s.Contributors.Items, 1)
	assert.Equal(t, "alice", s.Contributors.Items[0].Key)
	assert.Equal(t, 1, s.Contributors.Total)
	for _, item := range s.Contributors.Items {
		assert.Equal(t, item.Count, follow(t, e, item.Link), item.Key)
	}

	require.Len(t, s.ReviewerWorkload, 1)
	assert.Equal(t, "carol", s.ReviewerWorkload[0].Reviewer)
	assert.Equal(t, 1, s.ReviewSubmissions)
	assert.Equal(t, 1, follow(t, e, s.ReviewerWorkload[0].Link))
}

func TestCompute_TeamIsolation(t *testing.T) {
	e := New(richDataset(), testOptions())
	s := e.Compute(parse("days=365"))

	for _, item := range e.List(parse("days=365")) {
		assert.NotEqual(t, "foreign-1", item.PullRequestID)
	}
	for _, load := range s.ReviewerWorkload {
		assert.NotEqual(t, "mallory", load.Reviewer)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	ds := richDataset()
	f := parse("days=90&repo=api")

	first := New(ds, testOptions()).Compute(f)
	second := New(ds, testOptions()).Compute(f)
	e := New(ds, testOptions())

	assert.Equal(t, first, second)
	assert.Equal(t, e.Compute(f), e.Compute(f))
	assert.Equal(t, e.Leaderboard(f), e.Leaderboard(f))
}
