package aggregate

import (
	"sort"

	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/model"
)

type score struct {
	correct int
	total   int
	pending int
}

// Leaderboard scores reviewer guesses on the pull requests in f. Only the
// latest guess per (pull request, reviewer) counts, and only once the
// author disclosed. Reviewers without a scored guess are left out.
func (e *Engine) Leaderboard(f filter.Filter) model.Leaderboard {
	inScope := ids(e.Select(f))

	type key struct{ pr, reviewer string }
	latest := make(map[key]model.ReviewerGuess)
	for _, g := range e.ds.Guesses {
		if g.TeamID != e.ds.TeamID || !inScope.Has(g.PullRequestID) {
			continue
		}
		if f.Reviewer != "" && g.Reviewer != f.Reviewer {
			continue
		}
		k := key{g.PullRequestID, g.Reviewer}
		prev, ok := latest[k]
		if !ok || g.GuessedAt.After(prev.GuessedAt) ||
			(g.GuessedAt.Equal(prev.GuessedAt) && g.GuessID > prev.GuessID) {
			latest[k] = g
		}
	}

	scores := make(map[string]*score)
	pendingTotal := 0
	for k, g := range latest {
		s, ok := scores[k.reviewer]
		if !ok {
			s = &score{}
			scores[k.reviewer] = s
		}
		d, disclosed := e.idx.disclosures[k.pr]
		if !disclosed {
			s.pending++
			pendingTotal++
			continue
		}
		s.total++
		if g.GuessedAIAssisted == d.AIAssisted {
			s.correct++
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(scores))
	for name, s := range scores {
		if s.total == 0 {
			continue
		}
		entry := model.LeaderboardEntry{
			Reviewer:     name,
			CorrectCount: s.correct,
			TotalScored:  s.total,
			Accuracy:     float64(s.correct) / float64(s.total),
			Pending:      s.pending,
		}
		entry.AccuracyPercent, _ = Percent(s.correct, s.total, e.opts.PercentDecimals)
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return ranksBefore(entries[i], entries[j], e.opts.TieBreak)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return model.Leaderboard{
		Entries:        entries,
		Empty:          len(entries) == 0,
		PendingGuesses: pendingTotal,
	}
}

// ranksBefore compares accuracy exactly by cross multiplication.
func ranksBefore(a, b model.LeaderboardEntry, tb TieBreak) bool {
	left := a.CorrectCount * b.TotalScored
	right := b.CorrectCount * a.TotalScored
	if left != right {
		return left > right
	}
	if tb != TieBreakName && a.TotalScored != b.TotalScored {
		return a.TotalScored > b.TotalScored
	}
	return a.Reviewer < b.Reviewer
}
