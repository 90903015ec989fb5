package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_WithoutKeyIsNoop(t *testing.T) {
	c := New("", "https://us.i.posthog.com", zap.NewNop().Sugar())

	assert.NotPanics(t, func() {
		c.Capture("alice", EventDashboardViewed, map[string]any{"team_id": "team-1"})
		c.Close()
	})
}

func TestNilClient(t *testing.T) {
	var c *Client
	assert.NotPanics(t, func() {
		c.Capture("alice", EventFragmentFailed, nil)
		c.Close()
	})
}

func TestClient_ImplementsTracker(t *testing.T) {
	var tr Tracker = New("", "", zap.NewNop().Sugar())
	assert.NotNil(t, tr)
}
