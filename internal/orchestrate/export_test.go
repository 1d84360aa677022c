package orchestrate

import "context"

// Test exports for internal functions.

// BuildSummary exports buildSummary for testing.
var BuildSummary = buildSummary

// RunScheduledOnce exports runOnce so tests can fire a tick synchronously.
func (s *Scheduler) RunScheduledOnce(ctx context.Context) {
	s.runOnce(ctx)
}
