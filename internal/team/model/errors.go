package model

import "errors"

var (
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrNotMember indicates that the caller does not belong to the team.
	ErrNotMember = errors.New("not a member of this team")
	// ErrInvalidTeamID indicates a malformed team id.
	ErrInvalidTeamID = errors.New("invalid team id")
)
