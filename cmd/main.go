package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/shipboard/internal/adapters/http/api"
	"github.com/okian/shipboard/internal/adapters/http/ratelimit"
	"github.com/okian/shipboard/internal/adapters/http/site"
	"github.com/okian/shipboard/internal/adapters/http/swagger"
	app "github.com/okian/shipboard/internal/app"
	"github.com/okian/shipboard/internal/config"
	"github.com/okian/shipboard/internal/domain/types"
	"github.com/okian/shipboard/pkg/logger"
	"github.com/okian/shipboard/pkg/metrics"
)

// HTTP server timeout constants. simulate-load can run for a while on slow
// hosts, so the write timeout is generous.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger is not available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load config", logger.Error(err))
		return
	}

	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		loggerInstance.Warn(ctx, "invalid log_format; keeping text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
	}
	loggerInstance = logger.Get()
	applyLogLevel(ctx, loggerInstance, cfg.LogLevel)

	// Only log_level is picked up from a changed config file; the rest needs a restart.
	err = config.Watch(ctx, func(next *config.Config, err error) {
		if err != nil {
			loggerInstance.Warn(ctx, "config reload failed", logger.Error(err))
			return
		}
		applyLogLevel(ctx, loggerInstance, next.LogLevel)
		loggerInstance.Info(ctx, "config reloaded", logger.String("log_level", next.LogLevel))
	})
	if err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		loggerInstance.Warn(ctx, "config watch disabled", logger.Error(err))
	}

	if err := swagger.Validate(ctx); err != nil {
		loggerInstance.Warn(ctx, "embedded API document is invalid", logger.Error(err))
	}

	info := deploymentInfo(cfg, time.Now().UTC())
	setupMetrics(cfg, info)

	svc := app.New(
		app.WithLogger(loggerInstance.Named("service")),
		app.WithDeploymentInfo(info),
		app.WithCPUSampleInterval(cfg.CPUSampleInterval()),
		app.WithLoadIterations(cfg.LoadIterations),
		app.WithSampleInterval(cfg.SamplerInterval()),
	)
	if cfg.SamplerIntervalMS > 0 {
		if err := svc.Start(ctx); err != nil {
			loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
			return
		}
		defer svc.Stop()
	}

	mux, cleanup, err := buildMux(ctx, cfg, svc, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build routes", logger.Error(err))
		return
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("environment", info.Environment),
			logger.String("version", info.Version),
			logger.String("gitCommit", info.GitCommit),
			logger.String("buildNumber", info.BuildNumber),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		loggerInstance.Info(ctx, "shutting down server...")
	case err := <-serveErr:
		loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
		return
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(context.Background(), "server stopped")
}

// applyLogLevel sets the global level, falling back to info on invalid input.
func applyLogLevel(ctx context.Context, log logger.Logger, level string) {
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
}

// deploymentInfo captures the build metadata once at startup.
func deploymentInfo(cfg *config.Config, now time.Time) types.DeploymentInfo {
	return types.DeploymentInfo{
		Version:     cfg.Version,
		DeployedAt:  now,
		Environment: cfg.Environment,
		GitCommit:   cfg.GitCommit,
		BuildNumber: cfg.BuildNumber,
	}
}

// setupMetrics rebuilds the default metrics manager with the environment as a
// constant label and publishes the deployment metadata.
func setupMetrics(cfg *config.Config, info types.DeploymentInfo) {
	metrics.Configure(
		metrics.WithConstLabels(map[string]string{"env": info.Environment}),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
	)
	metrics.SetDeploymentInfo(info.Version, info.Environment, info.GitCommit, info.BuildNumber)
}

// buildMux registers every route. The returned cleanup releases the rate limiter.
func buildMux(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (*http.ServeMux, func(), error) {
	mux := http.NewServeMux()
	cleanup := func() {}

	opts := []api.Option{
		api.WithLogger(log.Named("http")),
		api.WithDashboard(site.Handler()),
		api.WithStreamInterval(cfg.StreamInterval()),
	}
	if cfg.LoadRateLimit > 0 {
		limiter, err := ratelimit.New(cfg.LoadRateLimit, cfg.LoadRateInterval(),
			ratelimit.WithOnReject(func(*http.Request) { metrics.RecordLoadSimulationRejected() }))
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = limiter.Close
		opts = append(opts, api.WithLoadLimiter(limiter))
	}

	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc, opts...).Register(ctx, mux)

	return mux, cleanup, nil
}
