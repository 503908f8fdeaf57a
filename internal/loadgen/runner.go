// Package loadgen drives counted traffic at a running dashboard and checks
// that the shared request counter lost no updates.
package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/shipboard/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// Run executes a complete load generation run.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if config.Requests <= 0 {
		return nil, ErrNoRequests
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	stats := &Stats{
		RunID:     uuid.NewString(),
		Planned:   config.Requests,
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting shipboard load run",
		logger.String("runId", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return stats, err
	}

	// Step 2: Baseline counter
	baseline, err := readCounter(ctx, client, config.BaseURL, stats.RunID)
	if err != nil {
		return stats, fmt.Errorf("baseline counter read failed: %w", err)
	}
	stats.BaselineCount = baseline

	// Step 3: Fire counted requests
	plan := generatePlan(ctx, config.Requests)
	fireRequests(ctx, config, plan, stats)

	// Step 4: Final counter
	final, err := readCounter(ctx, client, config.BaseURL, stats.RunID)
	if err != nil {
		return stats, fmt.Errorf("final counter read failed: %w", err)
	}
	stats.FinalCount = final

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	// Step 5: Verify
	verifyErr := verifyCounter(ctx, stats)

	if config.OutputFile != "" {
		if err := saveReport(ctx, config.OutputFile, stats); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	logger.Get().Info(ctx, "load run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running. /health is not counted.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Do(ctx, http.MethodGet, config.BaseURL+"/health", "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReport writes the run statistics as JSON.
func saveReport(ctx context.Context, filename string, stats *Stats) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var requestsPerSecond float64
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Answered) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("runId", stats.RunID),
		logger.Int("planned", stats.Planned),
		logger.Int("answered", stats.Answered),
		logger.Int("failed", stats.Failed),
		logger.Any("statusCodes", stats.StatusCodes),
		logger.Int64("counterDelta", stats.CounterDelta),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
