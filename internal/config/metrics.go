package config

import (
	"fmt"
	"time"
)

// Leaderboard tie-break policies.
const (
	TieBreakVolume = "volume"
	TieBreakName   = "name"
)

// MetricsConfig holds aggregation engine and fragment settings.
type MetricsConfig struct {
	// FragmentTimeout bounds the computation of a single fragment.
	FragmentTimeout time.Duration
	// MaxParallel is the number of fragments computed concurrently per page view.
	MaxParallel int
	// CacheTTL is how long computed results stay in the cache.
	CacheTTL time.Duration
	// PercentDecimals is the number of decimals shown for percentages (0 or 1).
	PercentDecimals int
	// TieBreak selects the leaderboard ordering after accuracy (volume, name).
	TieBreak string
	// DefaultDays is the window used when no valid date range is requested.
	DefaultDays int
	// StalePRAge marks open pull requests as needing attention.
	StalePRAge time.Duration
}

// LoadMetricsConfigFromEnv loads metrics configuration from environment variables.
func LoadMetricsConfigFromEnv() MetricsConfig {
	return MetricsConfig{
		FragmentTimeout: GetEnvDuration("METRICS_FRAGMENT_TIMEOUT", 5*time.Second),
		MaxParallel:     GetEnvInt("METRICS_MAX_PARALLEL", 4),
		CacheTTL:        GetEnvDuration("METRICS_CACHE_TTL", time.Minute),
		PercentDecimals: GetEnvInt("METRICS_PERCENT_DECIMALS", 1),
		TieBreak:        GetEnv("METRICS_LEADERBOARD_TIE_BREAK", TieBreakVolume),
		DefaultDays:     GetEnvInt("METRICS_DEFAULT_DAYS", 30),
		StalePRAge:      time.Duration(GetEnvInt("METRICS_STALE_PR_HOURS", 72)) * time.Hour,
	}
}

// Validate validates metrics configuration.
func (c MetricsConfig) Validate() error {
	if c.FragmentTimeout <= 0 {
		return fmt.Errorf("FragmentTimeout must be greater than 0")
	}
	if c.MaxParallel <= 0 {
		return fmt.Errorf("MaxParallel must be greater than 0")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CacheTTL must be non-negative")
	}
	if c.PercentDecimals != 0 && c.PercentDecimals != 1 {
		return fmt.Errorf("invalid percent decimals: %d (must be: 0, 1)", c.PercentDecimals)
	}
	if c.TieBreak != TieBreakVolume && c.TieBreak != TieBreakName {
		return fmt.Errorf("invalid tie break: %s (must be: volume, name)", c.TieBreak)
	}
	if c.DefaultDays <= 0 {
		return fmt.Errorf("DefaultDays must be greater than 0")
	}
	if c.StalePRAge <= 0 {
		return fmt.Errorf("StalePRAge must be greater than 0")
	}
	return nil
}
