package loadgen

import (
	"errors"
	"net/http"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Run-level errors.
var (
	ErrUnhealthy     = errors.New("dashboard is not healthy")
	ErrCountMismatch = errors.New("request counter delta does not match answered requests")
	ErrNoRequests    = errors.New("requests must be positive")
)

// countedTargets are cheap routes that increment the request counter.
// simulate-load is left out since it is rate limited and CPU heavy.
var countedTargets = []Target{
	{Method: http.MethodGet, Path: "/api/health-detailed"},
	{Method: http.MethodGet, Path: "/api/deployment-history"},
	{Method: http.MethodPost, Path: "/api/toggle-feature"},
	{Method: http.MethodGet, Path: "/api/system-info"},
}
