// Package repository provides data access for teams and memberships.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	teamModel "github.com/festy23/teampulse/internal/team/model"
)

// Repository defines team data access.
type Repository interface {
	// GetByID finds a team by id.
	GetByID(ctx context.Context, teamID string) (*teamModel.Team, error)

	// IsMember reports whether login belongs to the team.
	IsMember(ctx context.Context, teamID, login string) (bool, error)

	// Members lists the team's members ordered by login.
	Members(ctx context.Context, teamID string) ([]teamModel.Member, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a team repository.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, teamID string) (*teamModel.Team, error) {
	var team teamModel.Team
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &team, nil
}

func (r *repository) IsMember(ctx context.Context, teamID, login string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.Member{}).
		Where("team_id = ? AND login = ?", teamID, login).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

func (r *repository) Members(ctx context.Context, teamID string) ([]teamModel.Member, error) {
	members := []teamModel.Member{}
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("login ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}
