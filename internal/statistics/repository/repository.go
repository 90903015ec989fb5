// Package repository provides data access layer for statistics module.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/teampulse/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// LoadDataset returns the team's pull requests placed at or after since,
	// together with their reviews, disclosures and guesses. A zero since
	// loads everything.
	LoadDataset(ctx context.Context, teamID string, since time.Time) (*model.Dataset, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// LoadDataset loads a team-scoped dataset. The lower bound only narrows the
// read; membership in any filter is decided by the filter predicate.
func (r *repository) LoadDataset(ctx context.Context, teamID string, since time.Time) (*model.Dataset, error) {
	r.logger.Debugw("LoadDataset called", "team_id", teamID, "since", since)

	db := r.db.WithContext(ctx)
	ds := &model.Dataset{TeamID: teamID}

	prs := db.Model(&model.PullRequest{}).Where("team_id = ?", teamID)
	if !since.IsZero() {
		prs = prs.Where("COALESCE(merged_at, created_at) >= ?", since.UTC())
	}
	if err := prs.Order("created_at ASC, pull_request_id ASC").Find(&ds.PullRequests).Error; err != nil {
		r.logger.Errorw("LoadDataset pull requests query failed", "team_id", teamID, "error", err)
		return nil, fmt.Errorf("load pull requests: %w", err)
	}

	ids := db.Model(&model.PullRequest{}).Select("pull_request_id").Where("team_id = ?", teamID)
	if !since.IsZero() {
		ids = ids.Where("COALESCE(merged_at, created_at) >= ?", since.UTC())
	}

	if err := db.Where("team_id = ? AND pull_request_id IN (?)", teamID, ids).
		Order("submitted_at ASC, review_id ASC").
		Find(&ds.Reviews).Error; err != nil {
		r.logger.Errorw("LoadDataset reviews query failed", "team_id", teamID, "error", err)
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	if err := db.Where("team_id = ? AND pull_request_id IN (?)", teamID, ids).
		Order("pull_request_id ASC").
		Find(&ds.Disclosures).Error; err != nil {
		r.logger.Errorw("LoadDataset disclosures query failed", "team_id", teamID, "error", err)
		return nil, fmt.Errorf("load disclosures: %w", err)
	}

	if err := db.Where("team_id = ? AND pull_request_id IN (?)", teamID, ids).
		Order("guessed_at ASC, guess_id ASC").
		Find(&ds.Guesses).Error; err != nil {
		r.logger.Errorw("LoadDataset guesses query failed", "team_id", teamID, "error", err)
		return nil, fmt.Errorf("load guesses: %w", err)
	}

	r.logger.Debugw("LoadDataset completed",
		"team_id", teamID,
		"pull_requests", len(ds.PullRequests),
		"reviews", len(ds.Reviews),
		"disclosures", len(ds.Disclosures),
		"guesses", len(ds.Guesses),
	)
	return ds, nil
}
