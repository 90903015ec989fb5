package model

import "errors"

var (
	// ErrNoMetrics indicates that a series request selected no metric.
	ErrNoMetrics = errors.New("at least one metric must be selected")
	// ErrTooManyMetrics indicates that more than MaxSeriesMetrics metrics were requested.
	ErrTooManyMetrics = errors.New("at most 3 metrics can be compared")
	// ErrUnknownMetric indicates an unsupported metric id.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrUnknownGranularity indicates an unsupported bucket granularity.
	ErrUnknownGranularity = errors.New("unknown granularity")
	// ErrUnknownDimension indicates an unsupported breakdown dimension.
	ErrUnknownDimension = errors.New("unknown breakdown dimension")
	// ErrUnknownContainer indicates a fragment container id that is not served.
	ErrUnknownContainer = errors.New("unknown fragment container")
)
