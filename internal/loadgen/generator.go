package loadgen

import (
	"context"

	"github.com/okian/shipboard/pkg/logger"
)

// generatePlan spreads n requests round-robin over the counted routes so
// every route sees traffic and runs are reproducible.
func generatePlan(ctx context.Context, n int) []Target {
	plan := make([]Target, n)
	for i := range plan {
		plan[i] = countedTargets[i%len(countedTargets)]
	}

	logger.Get().Info(ctx, "request plan generated",
		logger.Int("requests", n),
		logger.Int("routes", len(countedTargets)),
	)
	return plan
}
