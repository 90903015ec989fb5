// Package analytics captures product events in PostHog.
package analytics

import (
	"github.com/posthog/posthog-go"
	"go.uber.org/zap"
)

// Events.
const (
	EventDashboardViewed = "dashboard_viewed"
	EventMetricsExported = "metrics_exported"
	EventFragmentFailed  = "fragment_failed"
)

// Tracker records product events.
type Tracker interface {
	Capture(distinctID, event string, props map[string]any)
	Close()
}

// Client wraps the PostHog client. A zero Client drops every event.
type Client struct {
	ph     posthog.Client
	logger *zap.SugaredLogger
}

// New creates a PostHog client. An empty apiKey yields a no-op client.
func New(apiKey, endpoint string, logger *zap.SugaredLogger) *Client {
	if apiKey == "" {
		return &Client{logger: logger}
	}
	ph, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Warnw("posthog init failed, analytics disabled", "error", err)
		return &Client{logger: logger}
	}
	return &Client{ph: ph, logger: logger}
}

// Close flushes pending events.
func (c *Client) Close() {
	if c == nil || c.ph == nil {
		return
	}
	if err := c.ph.Close(); err != nil && c.logger != nil {
		c.logger.Warnw("posthog close failed", "error", err)
	}
}

// Capture enqueues an event. Safe on a no-op client.
func (c *Client) Capture(distinctID, event string, props map[string]any) {
	if c == nil || c.ph == nil {
		return
	}
	p := posthog.NewProperties()
	for k, v := range props {
		p.Set(k, v)
	}
	err := c.ph.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: p,
	})
	if err != nil && c.logger != nil {
		c.logger.Debugw("posthog enqueue failed", "event", event, "error", err)
	}
}
