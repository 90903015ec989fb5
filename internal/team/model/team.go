package model

import (
	"regexp"
	"time"
)

// Member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Team is a tenant. Every metrics query is scoped to one team.
type Team struct {
	TeamID    string    `gorm:"primaryKey;column:team_id;type:varchar(255)" json:"team_id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// Member grants a login access to a team's metrics.
type Member struct {
	TeamID   string    `gorm:"primaryKey;column:team_id;type:varchar(255)" json:"-"`
	Login    string    `gorm:"primaryKey;column:login;type:varchar(255)" json:"login"`
	Role     string    `gorm:"column:role;type:varchar(32);not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;not null" json:"-"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "team_members"
}

var teamIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,254}$`)

// ValidTeamID reports whether id can name a team. Ids appear in URL paths and
// cache keys, so only letters, digits, dash and underscore are allowed.
func ValidTeamID(id string) bool {
	return teamIDPattern.MatchString(id)
}
