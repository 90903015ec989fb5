// Package model provides read-model entities and data transfer objects for the statistics module.
package model

import "time"

// PRState is the lifecycle state of a pull request.
type PRState string

// Pull request states.
const (
	StateOpen   PRState = "open"
	StateMerged PRState = "merged"
	StateClosed PRState = "closed"
)

// Valid reports whether s is a known state.
func (s PRState) Valid() bool {
	return s == StateOpen || s == StateMerged || s == StateClosed
}

// IssueTypeNone selects pull requests without an issue type.
const IssueTypeNone = "none"

// PullRequest is a team's pull request as synced from the code host.
// MergedAt is set iff State is merged.
type PullRequest struct {
	PullRequestID string     `gorm:"primaryKey;column:pull_request_id;type:varchar(255)" json:"pull_request_id"`
	TeamID        string     `gorm:"column:team_id;type:varchar(255);not null;index:idx_pull_requests_team_id" json:"team_id"`
	Repository    string     `gorm:"column:repository;type:varchar(255);not null" json:"repository"`
	Number        int        `gorm:"column:number;not null" json:"number"`
	Title         string     `gorm:"column:title;type:text;not null;default:''" json:"title"`
	Author        string     `gorm:"column:author;type:varchar(255);not null" json:"author"`
	State         PRState    `gorm:"column:state;type:varchar(16);not null" json:"state"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	MergedAt      *time.Time `gorm:"column:merged_at" json:"merged_at,omitempty"`
	Additions     int        `gorm:"column:additions;not null;default:0" json:"additions"`
	Deletions     int        `gorm:"column:deletions;not null;default:0" json:"deletions"`
	CommentCount  int        `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	IsAIAssisted  *bool      `gorm:"column:is_ai_assisted" json:"is_ai_assisted,omitempty"`
	IssueType     string     `gorm:"column:issue_type;type:varchar(64);not null;default:''" json:"issue_type"`
	Language      string     `gorm:"column:language;type:varchar(64);not null;default:''" json:"language"`
}

// TableName specifies the table name for GORM.
func (PullRequest) TableName() string {
	return "pull_requests"
}

// Size is the number of changed lines.
func (pr PullRequest) Size() int {
	return pr.Additions + pr.Deletions
}

// ReferenceTime places the pull request on the timeline: merge time for
// merged pull requests, creation time otherwise.
func (pr PullRequest) ReferenceTime() time.Time {
	if pr.State == StateMerged && pr.MergedAt != nil {
		return *pr.MergedAt
	}
	return pr.CreatedAt
}

// CycleTime returns merged_at - created_at for merged pull requests.
func (pr PullRequest) CycleTime() (time.Duration, bool) {
	if pr.State != StateMerged || pr.MergedAt == nil {
		return 0, false
	}
	return pr.MergedAt.Sub(pr.CreatedAt), true
}

// Review is a single review submission. A reviewer may submit several
// reviews on the same pull request.
type Review struct {
	ReviewID      string    `gorm:"primaryKey;column:review_id;type:varchar(255)" json:"review_id"`
	TeamID        string    `gorm:"column:team_id;type:varchar(255);not null;index:idx_reviews_team_id" json:"team_id"`
	PullRequestID string    `gorm:"column:pull_request_id;type:varchar(255);not null;index:idx_reviews_pull_request_id" json:"pull_request_id"`
	Reviewer      string    `gorm:"column:reviewer;type:varchar(255);not null" json:"reviewer"`
	State         string    `gorm:"column:state;type:varchar(32);not null" json:"state"`
	SubmittedAt   time.Time `gorm:"column:submitted_at;not null" json:"submitted_at"`
}

// TableName specifies the table name for GORM.
func (Review) TableName() string {
	return "reviews"
}

// AuthorDisclosure is the author's answer to "was this PR AI-assisted?".
type AuthorDisclosure struct {
	PullRequestID string    `gorm:"primaryKey;column:pull_request_id;type:varchar(255)" json:"pull_request_id"`
	TeamID        string    `gorm:"column:team_id;type:varchar(255);not null;index:idx_disclosures_team_id" json:"team_id"`
	Author        string    `gorm:"column:author;type:varchar(255);not null" json:"author"`
	AIAssisted    bool      `gorm:"column:ai_assisted;not null" json:"ai_assisted"`
	DisclosedAt   time.Time `gorm:"column:disclosed_at;not null" json:"disclosed_at"`
}

// TableName specifies the table name for GORM.
func (AuthorDisclosure) TableName() string {
	return "ai_disclosures"
}

// ReviewerGuess is a reviewer's guess whether the author used AI assistance.
type ReviewerGuess struct {
	GuessID           string    `gorm:"primaryKey;column:guess_id;type:varchar(255)" json:"guess_id"`
	TeamID            string    `gorm:"column:team_id;type:varchar(255);not null;index:idx_guesses_team_id" json:"team_id"`
	PullRequestID     string    `gorm:"column:pull_request_id;type:varchar(255);not null" json:"pull_request_id"`
	Reviewer          string    `gorm:"column:reviewer;type:varchar(255);not null" json:"reviewer"`
	GuessedAIAssisted bool      `gorm:"column:guessed_ai_assisted;not null" json:"guessed_ai_assisted"`
	QualityRating     *int      `gorm:"column:quality_rating" json:"quality_rating,omitempty"`
	GuessedAt         time.Time `gorm:"column:guessed_at;not null" json:"guessed_at"`
}

// TableName specifies the table name for GORM.
func (ReviewerGuess) TableName() string {
	return "reviewer_guesses"
}

// Dataset is everything the engine reads for one team.
type Dataset struct {
	TeamID       string
	PullRequests []PullRequest
	Reviews      []Review
	Disclosures  []AuthorDisclosure
	Guesses      []ReviewerGuess
}

// Size buckets by changed lines.
const (
	SizeXS = "XS"
	SizeS  = "S"
	SizeM  = "M"
	SizeL  = "L"
	SizeXL = "XL"
)

// SizeBuckets lists the buckets from smallest to largest.
var SizeBuckets = []string{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// SizeBucket classifies a number of changed lines.
func SizeBucket(lines int) string {
	switch {
	case lines < 10:
		return SizeXS
	case lines < 50:
		return SizeS
	case lines < 250:
		return SizeM
	case lines < 1000:
		return SizeL
	default:
		return SizeXL
	}
}

// ValidSizeBucket reports whether b names a bucket.
func ValidSizeBucket(b string) bool {
	for _, s := range SizeBuckets {
		if s == b {
			return true
		}
	}
	return false
}
