package model

import "time"

// MaxSeriesMetrics is the number of metrics one chart can compare.
const MaxSeriesMetrics = 3

// Window is the resolved half-open date range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BreakdownItem is one slice of a breakdown with its drill-down link.
type BreakdownItem struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
	HasPercent bool    `json:"has_percent"`
	Link       string  `json:"link"`
}

// Breakdown groups pull requests by one attribute. Total equals the sum of item counts.
type Breakdown struct {
	Items []BreakdownItem `json:"items"`
	Total int             `json:"total"`
}

// ReviewerLoad counts the distinct pull requests a reviewer reviewed.
type ReviewerLoad struct {
	Reviewer    string `json:"reviewer"`
	PRsReviewed int    `json:"prs_reviewed"`
	Submissions int    `json:"submissions"`
	Link        string `json:"link"`
}

// MetricsSnapshot holds the scalar and breakdown aggregates for one filter.
type MetricsSnapshot struct {
	TeamID string `json:"team_id"`
	Window Window `json:"window"`
	Query  string `json:"query"`

	TotalPRs     int    `json:"total_prs"`
	TotalPRsLink string `json:"total_prs_link"`
	OpenPRs      int    `json:"open_prs"`

	PRsMerged     int    `json:"prs_merged"`
	PRsMergedLink string `json:"prs_merged_link"`

	AvgCycleTimeHours  float64 `json:"avg_cycle_time_hours"`
	HasCycleTime       bool    `json:"has_cycle_time"`
	AvgReviewTimeHours float64 `json:"avg_review_time_hours"`
	HasReviewTime      bool    `json:"has_review_time"`

	AIAssistedCount   int     `json:"ai_assisted_count"`
	AIAssistedLink    string  `json:"ai_assisted_link"`
	AIAssistedRatio   float64 `json:"ai_assisted_ratio"`
	AIAssistedPercent float64 `json:"ai_assisted_percent"`
	HasAIRatio        bool    `json:"has_ai_ratio"`

	SizeDistribution Breakdown      `json:"size_distribution"`
	IssueTypes       Breakdown      `json:"issue_types"`
	Contributors     Breakdown      `json:"contributors"`
	ReviewerWorkload []ReviewerLoad `json:"reviewer_workload"`
	// ReviewSubmissions is the raw review row count behind ReviewerWorkload.
	ReviewSubmissions int `json:"review_submissions"`
}

// SeriesPoint is one time bucket [Start, End).
type SeriesPoint struct {
	Period  string    `json:"period"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Value   float64   `json:"value"`
	Count   int       `json:"count"`
	HasData bool      `json:"has_data"`
}

// TimeSeries is one metric over consecutive buckets.
type TimeSeries struct {
	Metric string        `json:"metric"`
	Label  string        `json:"label"`
	Unit   string        `json:"unit"`
	Points []SeriesPoint `json:"points"`
}

// BreakdownPoint holds per-key counts for one bucket.
type BreakdownPoint struct {
	Period string         `json:"period"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// BreakdownSeries is a categorical breakdown over consecutive buckets.
type BreakdownSeries struct {
	Dimension string           `json:"dimension"`
	Keys      []string         `json:"keys"`
	Points    []BreakdownPoint `json:"points"`
}

// LeaderboardEntry is one reviewer's AI Detective score.
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	Reviewer        string  `json:"reviewer"`
	CorrectCount    int     `json:"correct_count"`
	TotalScored     int     `json:"total_scored_count"`
	Accuracy        float64 `json:"accuracy"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	Pending         int     `json:"pending"`
}

// Leaderboard is ordered by rank ascending. Empty is true when no reviewer
// has a scored guess.
type Leaderboard struct {
	Entries        []LeaderboardEntry `json:"entries"`
	Empty          bool               `json:"empty"`
	PendingGuesses int                `json:"pending_guesses"`
}

// PullRequestRow is one line of the pull request list and CSV export.
type PullRequestRow struct {
	PullRequestID  string     `json:"pull_request_id"`
	Repository     string     `json:"repository"`
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	State          PRState    `json:"state"`
	CreatedAt      time.Time  `json:"created_at"`
	MergedAt       *time.Time `json:"merged_at,omitempty"`
	CycleTimeHours *float64   `json:"cycle_time_hours,omitempty"`
	Size           int        `json:"size"`
	SizeBucket     string     `json:"size_bucket"`
	Comments       int        `json:"comments"`
	AIAssisted     *bool      `json:"ai_assisted,omitempty"`
	IssueType      string     `json:"issue_type"`
	Reviewers      []string   `json:"reviewers"`
}

// PullRequestPage is a page of the filtered pull request list.
type PullRequestPage struct {
	Rows      []PullRequestRow  `json:"rows"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PerPage   int               `json:"per_page"`
	Pages     int               `json:"pages"`
	Sort      string            `json:"sort"`
	Order     string            `json:"order"`
	SortLinks map[string]string `json:"sort_links"`
}

// AttentionItem is an open pull request that needs attention and why.
type AttentionItem struct {
	Row     PullRequestRow `json:"row"`
	Reasons []string       `json:"reasons"`
}
