package loadgen

import (
	"context"
	"fmt"

	"github.com/okian/shipboard/pkg/logger"
)

// verifyCounter checks that the counter moved by exactly the answered
// requests. Both counter reads are counted too: the final read accounts for
// one extra increment on top of the fired requests.
func verifyCounter(ctx context.Context, stats *Stats) error {
	stats.CounterDelta = stats.FinalCount - stats.BaselineCount - 1
	expected := int64(stats.Answered)

	if stats.CounterDelta != expected {
		return fmt.Errorf("%w: counter moved %d, answered %d (baseline %d, final %d)",
			ErrCountMismatch, stats.CounterDelta, expected, stats.BaselineCount, stats.FinalCount)
	}

	logger.Get().Info(ctx, "request counter verified",
		logger.Int64("baseline", stats.BaselineCount),
		logger.Int64("final", stats.FinalCount),
		logger.Int64("delta", stats.CounterDelta),
	)
	return nil
}
