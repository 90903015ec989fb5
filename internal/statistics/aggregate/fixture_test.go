package aggregate

import (
	"fmt"
	"net/url"
	"time"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

const team = "team-1"

var now = time.Date(2025, time.May, 14, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) time.Time {
	return now.Add(-d)
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func boolPtr(b bool) *bool {
	return &b
}

func mergedPR(id string, created, merged time.Time) model.PullRequest {
	return model.PullRequest{
		PullRequestID: id,
		TeamID:        team,
		Repository:    "api",
		Number:        len(id),
		Title:         "PR " + id,
		Author:        "alice",
		State:         model.StateMerged,
		CreatedAt:     created,
		MergedAt:      &merged,
		Additions:     20,
		Deletions:     5,
	}
}

func openPR(id string, created time.Time) model.PullRequest {
	return model.PullRequest{
		PullRequestID: id,
		TeamID:        team,
		Repository:    "api",
		Title:         "PR " + id,
		Author:        "alice",
		State:         model.StateOpen,
		CreatedAt:     created,
		Additions:     3,
	}
}

func review(id, pr, reviewer string, at time.Time) model.Review {
	return model.Review{
		ReviewID:      id,
		TeamID:        team,
		PullRequestID: pr,
		Reviewer:      reviewer,
		State:         "approved",
		SubmittedAt:   at,
	}
}

func guess(id, pr, reviewer string, ai bool, at time.Time) model.ReviewerGuess {
	return model.ReviewerGuess{
		GuessID:           id,
		TeamID:            team,
		PullRequestID:     pr,
		Reviewer:          reviewer,
		GuessedAIAssisted: ai,
		GuessedAt:         at,
	}
}

func disclosure(pr string, ai bool) model.AuthorDisclosure {
	return model.AuthorDisclosure{
		PullRequestID: pr,
		TeamID:        team,
		Author:        "alice",
		AIAssisted:    ai,
		DisclosedAt:   now,
	}
}

func parse(raw string) filter.Filter {
	q, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return filter.Parse(team, q, now, 30)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return now }
	return opts
}

// richDataset mixes every dimension the filter knows about.
func richDataset() *model.Dataset {
	ds := &model.Dataset{TeamID: team}
	repos := []string{"api", "web", "infra"}
	authors := []string{"alice", "bob", "carol", "dave"}
	types := []string{"feature", "hotfix", "chore", ""}
	langs := []string{"Go", "TypeScript", ""}
	reviewers := []string{"erin", "frank", "grace"}

	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("pr-%02d", i)
		created := ago(days(i*3%100) + time.Duration(i)*time.Hour)
		pr := model.PullRequest{
			PullRequestID: id,
			TeamID:        team,
			Repository:    repos[i%len(repos)],
			Number:        i,
			Title:         "Change " + id,
			Author:        authors[i%len(authors)],
			CreatedAt:     created,
			Additions:     (i * 37) % 1500,
			Deletions:     i % 7,
			CommentCount:  i % 5,
			IssueType:     types[i%len(types)],
			Language:      langs[i%len(langs)],
		}
		switch i % 3 {
		case 0:
			pr.State = model.StateOpen
		case 1:
			pr.State = model.StateMerged
			merged := created.Add(time.Duration(5+i) * time.Hour)
			pr.MergedAt = &merged
		default:
			pr.State = model.StateClosed
		}
		switch i % 4 {
		case 0:
			pr.IsAIAssisted = boolPtr(true)
		case 1:
			pr.IsAIAssisted = boolPtr(false)
		}
		ds.PullRequests = append(ds.PullRequests, pr)

		for j := 0; j < i%4; j++ {
			ds.Reviews = append(ds.Reviews, review(
				fmt.Sprintf("rv-%02d-%d", i, j), id, reviewers[(i+j/2)%len(reviewers)],
				created.Add(time.Duration(j+1)*time.Hour)))
		}
		if i%5 == 0 {
			ds.Disclosures = append(ds.Disclosures, disclosure(id, i%10 == 0))
		}
		if i%2 == 0 {
			ds.Guesses = append(ds.Guesses, guess(fmt.Sprintf("g-%02d", i), id, reviewers[i%len(reviewers)], i%4 == 0, created))
		}
	}

	// Another team's rows must never leak.
	foreign := mergedPR("foreign-1", ago(days(2)), ago(days(1)))
	foreign.TeamID = "team-2"
	ds.PullRequests = append(ds.PullRequests, foreign)
	ds.Reviews = append(ds.Reviews, model.Review{
		ReviewID: "foreign-rv", TeamID: "team-2", PullRequestID: "pr-01", Reviewer: "mallory", SubmittedAt: now,
	})

	return ds
}
