// Package service provides the dashboard service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/shipboard/internal/adapters/host"
	"github.com/okian/shipboard/internal/domain/features"
	"github.com/okian/shipboard/internal/domain/fixtures"
	"github.com/okian/shipboard/internal/domain/loadsim"
	"github.com/okian/shipboard/internal/domain/snapshot"
	"github.com/okian/shipboard/internal/domain/state"
	"github.com/okian/shipboard/internal/domain/types"
	"github.com/okian/shipboard/pkg/logger"
	"github.com/okian/shipboard/pkg/metrics"
)

const (
	defaultSamplerInterval     = 10 * time.Second
	nanosecondsPerMillisecond  = 1e6
	loadSimulationStatusOK     = "completed"
	defaultHostCPUSampleWindow = 200 * time.Millisecond
)

// PlatformSource reports host platform strings for /api/system-info.
type PlatformSource interface {
	Platform(ctx context.Context) (types.PlatformInfo, error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	state     *state.State
	builder   *snapshot.Builder
	probe     snapshot.Probe
	platform  PlatformSource
	toggler   *features.Toggler
	simulator *loadsim.Simulator

	// Configuration
	info              types.DeploymentInfo
	loadIterations    int
	samplerInterval   time.Duration
	cpuSampleInterval time.Duration
	now               func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProbe replaces the host probe used for snapshots and sampling.
// If the probe also implements PlatformSource it serves system info too.
func WithProbe(p snapshot.Probe) Option {
	return func(s *Service) {
		if p == nil {
			return
		}
		s.probe = p
		if ps, ok := p.(PlatformSource); ok {
			s.platform = ps
		}
	}
}

// WithPlatformSource overrides where system info platform strings come from.
func WithPlatformSource(ps PlatformSource) Option {
	return func(s *Service) {
		if ps != nil {
			s.platform = ps
		}
	}
}

// WithDeploymentInfo sets the deployment metadata. A zero DeployedAt is
// replaced with the construction time.
func WithDeploymentInfo(info types.DeploymentInfo) Option {
	return func(s *Service) {
		s.info = info
	}
}

// WithLoadIterations sets the busy-loop size for simulated load.
func WithLoadIterations(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.loadIterations = n
		}
	}
}

// WithSampleInterval sets how often the background sampler refreshes gauges.
func WithSampleInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.samplerInterval = d
		}
	}
}

// WithCPUSampleInterval sets the CPU sampling window of the default host probe.
func WithCPUSampleInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.cpuSampleInterval = d
		}
	}
}

// WithToggler replaces the feature toggler.
func WithToggler(t *features.Toggler) Option {
	return func(s *Service) {
		if t != nil {
			s.toggler = t
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		loadIterations:    loadsim.DefaultIterations,
		samplerInterval:   defaultSamplerInterval,
		cpuSampleInterval: defaultHostCPUSampleWindow,
		now:               time.Now,
		stopCh:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.probe == nil {
		p := host.New(host.WithSampleInterval(s.cpuSampleInterval))
		s.probe = p
		if s.platform == nil {
			s.platform = p
		}
	}
	if s.platform == nil {
		s.platform = host.New()
	}
	if s.toggler == nil {
		s.toggler = features.NewToggler()
	}
	if s.info.DeployedAt.IsZero() {
		s.info.DeployedAt = s.now()
	}

	s.state = state.New(s.info)
	s.builder = snapshot.NewBuilder(s.probe)
	s.simulator = loadsim.New(loadsim.WithIterations(s.loadIterations))

	return s
}

// Start launches the background gauge sampler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting dashboard service...")

	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.runSampler(ctx, s.stopCh)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("environment", s.info.Environment),
		logger.String("version", s.info.Version),
		logger.Int("loadIterations", s.loadIterations),
		logger.Duration("samplerInterval", s.samplerInterval),
	)

	return nil
}

// Stop gracefully shuts down the sampler.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.logger.Info(context.Background(), "stopping dashboard service...")
	close(s.stopCh)
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) runSampler(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.samplerInterval)
	defer ticker.Stop()

	s.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

// sample refreshes host and runtime gauges.
func (s *Service) sample(ctx context.Context) {
	cpu, err := s.probe.CPUPercent(ctx)
	if err != nil {
		s.logger.Debug(ctx, "cpu sample failed", logger.Error(err))
		return
	}
	mem, err := s.probe.Memory(ctx)
	if err != nil {
		s.logger.Debug(ctx, "memory sample failed", logger.Error(err))
		return
	}
	metrics.UpdateHostUsage(cpu, mem.UsedPercent, mem.Used, mem.Total)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond)
	}
}

// CountRequest increments the request counter and returns the new value.
func (s *Service) CountRequest() int64 {
	n := s.state.IncrementAndRead()
	metrics.UpdateRequestCount(n)
	return n
}

// RequestCount returns the counter without incrementing it.
func (s *Service) RequestCount() int64 {
	return s.state.Count()
}

// DeploymentInfo returns the immutable deployment metadata.
func (s *Service) DeploymentInfo() types.DeploymentInfo {
	return s.state.DeploymentInfo()
}

// Snapshot builds a metrics snapshot for the given counter value.
func (s *Service) Snapshot(ctx context.Context, count int64) (types.MetricsSnapshot, error) {
	start := time.Now()
	snap, err := s.builder.Build(ctx, count, s.state.DeploymentInfo(), s.now())
	if err != nil {
		var rqe *snapshot.ResourceQueryError
		if errors.As(err, &rqe) {
			metrics.RecordSnapshotFailure(rqe.Resource)
		}
		s.logger.Error(ctx, "snapshot failed", logger.Error(err))
		return types.MetricsSnapshot{}, err
	}

	metrics.RecordSnapshotBuilt(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateHostUsage(snap.CPUPercent, snap.MemoryPercent, snap.MemoryUsed, snap.MemoryTotal)
	return snap, nil
}

// HealthReport returns the fixed subsystem checks.
func (s *Service) HealthReport() types.HealthReport {
	return fixtures.HealthReport(s.now())
}

// DeploymentHistory returns the fixed deployment records.
func (s *Service) DeploymentHistory() []types.DeploymentRecord {
	return fixtures.DeploymentHistory()
}

// SimulateLoad runs the CPU busy loop and reports how long it took.
func (s *Service) SimulateLoad(ctx context.Context) (types.LoadResult, error) {
	elapsed, err := s.simulator.Run(ctx)
	if err != nil {
		return types.LoadResult{}, fmt.Errorf("simulate load: %w", err)
	}

	ms := elapsed.Milliseconds()
	metrics.RecordLoadSimulation(float64(elapsed.Microseconds()) / 1000)
	s.logger.Info(ctx, "load simulation finished",
		logger.Int("iterations", s.simulator.Iterations()),
		logger.Int64("durationMs", ms),
	)

	return types.LoadResult{
		Status:     loadSimulationStatusOK,
		Iterations: s.simulator.Iterations(),
		DurationMS: ms,
	}, nil
}

// ToggleFeature draws a random feature toggle.
func (s *Service) ToggleFeature(ctx context.Context) types.FeatureToggle {
	t := s.toggler.Toggle()
	metrics.RecordFeatureToggle(t.Feature, t.Enabled)
	s.logger.Info(ctx, "feature toggled",
		logger.String("feature", t.Feature),
		logger.Bool("enabled", t.Enabled),
	)
	return t
}

// SystemInfo returns platform strings and deployment metadata. Host lookup
// failures are logged and the runtime fallbacks are used.
func (s *Service) SystemInfo(ctx context.Context) types.SystemInfo {
	platform, err := s.platform.Platform(ctx)
	if err != nil {
		s.logger.Warn(ctx, "platform lookup incomplete", logger.Error(err))
	}
	return types.SystemInfo{
		PlatformInfo:   platform,
		DeploymentInfo: s.state.DeploymentInfo(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := s.state.DeploymentInfo()
	return map[string]interface{}{
		"started":         s.started,
		"requestCount":    s.state.Count(),
		"uptime":          snapshot.FormatUptime(s.now().Sub(info.DeployedAt)),
		"environment":     info.Environment,
		"version":         info.Version,
		"loadIterations":  s.simulator.Iterations(),
		"samplerInterval": s.samplerInterval.String(),
	}
}
