// Package service provides team lookup and access control.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	teamModel "github.com/festy23/teampulse/internal/team/model"
	"github.com/festy23/teampulse/internal/team/repository"
)

// Service defines team operations.
type Service interface {
	// Authorize checks that the team exists and login belongs to it.
	Authorize(ctx context.Context, teamID, login string) error

	// GetTeam returns a team with its members.
	GetTeam(ctx context.Context, teamID string) (*teamModel.TeamResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a team service.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Authorize(ctx context.Context, teamID, login string) error {
	if !teamModel.ValidTeamID(teamID) {
		return teamModel.ErrInvalidTeamID
	}
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}

	ok, err := s.repo.IsMember(ctx, teamID, login)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", teamID, err)
	}
	if !ok {
		s.logger.Infow("team access denied", "team_id", teamID, "login", login)
		return teamModel.ErrNotMember
	}
	return nil
}

func (s *service) GetTeam(ctx context.Context, teamID string) (*teamModel.TeamResponse, error) {
	if !teamModel.ValidTeamID(teamID) {
		return nil, teamModel.ErrInvalidTeamID
	}

	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.Members(ctx, teamID)
	if err != nil {
		return nil, err
	}

	return &teamModel.TeamResponse{
		TeamID:  team.TeamID,
		Name:    team.Name,
		Members: members,
	}, nil
}
