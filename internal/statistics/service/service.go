// Package service provides business logic layer for statistics module.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/festy23/teampulse/internal/cache"
	"github.com/festy23/teampulse/internal/filter"
	"github.com/festy23/teampulse/internal/statistics/aggregate"
	"github.com/festy23/teampulse/internal/statistics/model"
	"github.com/festy23/teampulse/internal/statistics/repository"
	"github.com/festy23/teampulse/pkg/retry"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// Snapshot returns headline numbers and breakdowns for f.
	Snapshot(ctx context.Context, f filter.Filter) (*model.MetricsSnapshot, error)

	// Trends returns one series per metric, bucketed by g.
	Trends(ctx context.Context, f filter.Filter, g aggregate.Granularity, metrics []string) ([]model.TimeSeries, error)

	// BreakdownTrends returns per-bucket counts for a categorical dimension.
	BreakdownTrends(ctx context.Context, f filter.Filter, g aggregate.Granularity, dimension string) (*model.BreakdownSeries, error)

	// Leaderboard returns the AI Detective leaderboard for f.
	Leaderboard(ctx context.Context, f filter.Filter) (*model.Leaderboard, error)

	// PullRequests returns one page of the pull request list for f.
	PullRequests(ctx context.Context, f filter.Filter, page, perPage int) (*model.PullRequestPage, error)

	// Export returns every pull request row for f in list order.
	Export(ctx context.Context, f filter.Filter) ([]model.PullRequestRow, error)

	// NeedsAttention returns open pull requests in f that need attention.
	NeedsAttention(ctx context.Context, f filter.Filter) ([]model.AttentionItem, error)
}

// Options configure the service.
type Options struct {
	Engine   aggregate.Options
	CacheTTL time.Duration
	Retry    retry.Config
	// LoadTimeout bounds a shared dataset load, which outlives the caller
	// that started it.
	LoadTimeout time.Duration
}

const defaultLoadTimeout = 30 * time.Second

// DefaultOptions returns options with engine defaults and query retries.
func DefaultOptions() Options {
	return Options{
		Engine:      aggregate.DefaultOptions(),
		CacheTTL:    time.Minute,
		Retry:       retry.QueryConfig(),
		LoadTimeout: defaultLoadTimeout,
	}
}

type service struct {
	repo   repository.Repository
	cache  cache.Cache
	opts   Options
	loads  singleflight.Group
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, c cache.Cache, opts Options, logger *zap.SugaredLogger) Service {
	if c == nil {
		c = cache.NewNop()
	}
	return &service{
		repo:   repo,
		cache:  c,
		opts:   opts,
		logger: logger,
	}
}

// ListPath is the pull request list of a team; drill-down links point to it.
func ListPath(teamID string) string {
	return filter.TeamPath(teamID, "pull-requests")
}

// engine loads the team's dataset for f's window and indexes it. Concurrent
// loads of the same window share one query; a caller that gives up stops
// waiting without failing the others.
func (s *service) engine(ctx context.Context, f filter.Filter) (*aggregate.Engine, error) {
	key := f.TeamID + "|" + f.Start.UTC().Format(time.RFC3339)

	timeout := s.opts.LoadTimeout
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}
	ch := s.loads.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return retry.DoWithResult(loadCtx, s.opts.Retry, func() (*model.Dataset, error) {
			return s.repo.LoadDataset(loadCtx, f.TeamID, f.Start)
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		s.logger.Debugw("dataset load abandoned", "team_id", f.TeamID, "error", ctx.Err())
		return nil, fmt.Errorf("load dataset: %w", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		s.logger.Errorw("dataset load failed", "team_id", f.TeamID, "error", res.Err)
		return nil, fmt.Errorf("load dataset: %w", res.Err)
	}
	if res.Shared {
		s.logger.Debugw("dataset load shared", "team_id", f.TeamID)
	}

	opts := s.opts.Engine
	opts.LinkBase = ListPath(f.TeamID)
	return aggregate.New(res.Val.(*model.Dataset), opts), nil
}

// cached serves kind for f from the cache or computes and stores it.
func cached[T any](ctx context.Context, s *service, f filter.Filter, kind string, compute func(*aggregate.Engine) (T, error)) (T, error) {
	key := cache.Key(f.TeamID, kind, f.CacheKey())

	if raw, ok := s.cache.Get(ctx, key); ok {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			s.logger.Debugw("cache hit", "team_id", f.TeamID, "kind", kind)
			return out, nil
		}
		s.logger.Warnw("cache entry unreadable, recomputing", "key", key)
	}

	var zero T
	e, err := s.engine(ctx, f)
	if err != nil {
		return zero, err
	}
	out, err := compute(e)
	if err != nil {
		return zero, err
	}

	if s.opts.CacheTTL > 0 {
		if raw, err := json.Marshal(out); err == nil {
			s.cache.Set(ctx, key, raw, s.opts.CacheTTL)
		}
	}
	return out, nil
}

func (s *service) Snapshot(ctx context.Context, f filter.Filter) (*model.MetricsSnapshot, error) {
	s.logger.Debugw("Snapshot called", "team_id", f.TeamID, "filter", f.Encode())

	snap, err := cached(ctx, s, f, "snapshot", func(e *aggregate.Engine) (model.MetricsSnapshot, error) {
		return e.Compute(f), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Snapshot completed", "team_id", f.TeamID, "total_prs", snap.TotalPRs, "prs_merged", snap.PRsMerged)
	return &snap, nil
}

func (s *service) Trends(ctx context.Context, f filter.Filter, g aggregate.Granularity, metrics []string) ([]model.TimeSeries, error) {
	ids, err := aggregate.ParseMetrics(metrics)
	if err != nil {
		return nil, err
	}
	kind := fmt.Sprintf("trends:%s:%v", g, ids)

	series, err := cached(ctx, s, f, kind, func(e *aggregate.Engine) ([]model.TimeSeries, error) {
		return e.BuildSeries(f, g, ids)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Trends completed", "team_id", f.TeamID, "granularity", g, "metrics", ids)
	return series, nil
}

func (s *service) BreakdownTrends(ctx context.Context, f filter.Filter, g aggregate.Granularity, dimension string) (*model.BreakdownSeries, error) {
	series, err := cached(ctx, s, f, "breakdown:"+string(g)+":"+dimension, func(e *aggregate.Engine) (model.BreakdownSeries, error) {
		return e.BuildBreakdownSeries(f, g, dimension)
	})
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (s *service) Leaderboard(ctx context.Context, f filter.Filter) (*model.Leaderboard, error) {
	lb, err := cached(ctx, s, f, "leaderboard", func(e *aggregate.Engine) (model.Leaderboard, error) {
		return e.Leaderboard(f), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Leaderboard completed", "team_id", f.TeamID, "entries", len(lb.Entries))
	return &lb, nil
}

func (s *service) PullRequests(ctx context.Context, f filter.Filter, page, perPage int) (*model.PullRequestPage, error) {
	e, err := s.engine(ctx, f)
	if err != nil {
		return nil, err
	}
	p := e.ListPage(f, page, perPage)
	s.logger.Debugw("PullRequests completed", "team_id", f.TeamID, "total", p.Total, "page", p.Page)
	return &p, nil
}

func (s *service) Export(ctx context.Context, f filter.Filter) ([]model.PullRequestRow, error) {
	e, err := s.engine(ctx, f)
	if err != nil {
		return nil, err
	}
	rows := e.List(f)
	s.logger.Infow("Export completed", "team_id", f.TeamID, "rows", len(rows))
	return rows, nil
}

func (s *service) NeedsAttention(ctx context.Context, f filter.Filter) ([]model.AttentionItem, error) {
	e, err := s.engine(ctx, f)
	if err != nil {
		return nil, err
	}
	return e.NeedsAttention(f), nil
}
