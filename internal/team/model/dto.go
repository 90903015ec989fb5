// Package model provides the team aggregate and its DTOs.
package model

// TeamResponse describes a team to its members.
type TeamResponse struct {
	TeamID  string   `json:"team_id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}
