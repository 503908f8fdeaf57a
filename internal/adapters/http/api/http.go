// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/shipboard/internal/adapters/http/ratelimit"
	"github.com/okian/shipboard/internal/domain/types"
	"github.com/okian/shipboard/pkg/logger"
	"github.com/okian/shipboard/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CountRequest increments the shared counter and returns the new value.
	CountRequest() int64
	// RequestCount reads the counter without changing it.
	RequestCount() int64

	Snapshot(ctx context.Context, count int64) (types.MetricsSnapshot, error)
	HealthReport() types.HealthReport
	DeploymentHistory() []types.DeploymentRecord
	SimulateLoad(ctx context.Context) (types.LoadResult, error)
	ToggleFeature(ctx context.Context) types.FeatureToggle
	SystemInfo(ctx context.Context) types.SystemInfo
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLoadLimiter throttles POST /api/simulate-load per client.
func WithLoadLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) {
		s.loadLimiter = l
	}
}

// WithDashboard mounts the HTML dashboard at GET /.
func WithDashboard(h http.Handler) Option {
	return func(s *Server) {
		s.dashboard = h
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStreamInterval sets how often GET /api/metrics/stream pushes a snapshot.
func WithStreamInterval(d time.Duration) Option {
	return func(s *Server) {
		s.streamInterval = d
	}
}

// WithClock overrides the time source for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps        Dependencies
	loadLimiter *ratelimit.Limiter
	dashboard   http.Handler
	logger      logger.Logger
	now         func() time.Time

	streamInterval time.Duration

	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	metricsHandler    *MetricsHandler
	loadHandler       *LoadHandler
	deploymentHandler *DeploymentHandler
	streamHandler     *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps: deps,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.healthHandler = NewHealthHandler(deps, s.now)
	s.statsHandler = NewStatsHandler(statsProvider)
	s.metricsHandler = NewMetricsHandler(deps)
	s.loadHandler = NewLoadHandler(deps)
	s.deploymentHandler = NewDeploymentHandler(deps)
	s.streamHandler = NewStreamHandler(deps, s.streamInterval, s.logger.Named("stream"))
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Operational routes are not counted.
	mux.Handle("GET /health", s.route("health", false, s.healthHandler.HandleHealth))
	mux.Handle("GET /stats", s.route("stats", false, s.statsHandler.HandleStats))
	mux.Handle("GET /metrics", metrics.Handler())

	// Dashboard routes are counted before the handler runs.
	mux.Handle("GET /api/metrics", s.route("api_metrics", true, s.metricsHandler.HandleMetrics))
	mux.Handle("GET /api/metrics/stream", s.route("api_metrics_stream", true, s.streamHandler.HandleStream))
	mux.Handle("GET /api/health-detailed", s.route("api_health_detailed", true, s.healthHandler.HandleHealthDetailed))
	mux.Handle("GET /api/deployment-history", s.route("api_deployment_history", true, s.deploymentHandler.HandleHistory))
	mux.Handle("POST /api/toggle-feature", s.route("api_toggle_feature", true, s.deploymentHandler.HandleToggleFeature))
	mux.Handle("GET /api/system-info", s.route("api_system_info", true, s.deploymentHandler.HandleSystemInfo))

	simulate := http.Handler(http.HandlerFunc(s.loadHandler.HandleSimulateLoad))
	if s.loadLimiter != nil {
		simulate = s.loadLimiter.Middleware(simulate)
	}
	mux.Handle("POST /api/simulate-load", s.route("api_simulate_load", true, simulate.ServeHTTP))

	if s.dashboard != nil {
		mux.Handle("GET /{$}", s.route("dashboard", true, s.dashboard.ServeHTTP))
	}
}

// route applies the shared middleware chain. The outermost layer runs first.
func (s *Server) route(endpoint string, counted bool, h http.HandlerFunc) http.Handler {
	next := h
	if counted {
		next = CountingMiddleware(s.deps, next)
	}
	next = MetricsMiddleware(next, endpoint)
	next = LoggingMiddleware(s.logger, next)
	next = RequestIDMiddleware(next)
	return RecoverMiddleware(s.logger, endpoint, next)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
