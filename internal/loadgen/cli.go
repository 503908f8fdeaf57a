package loadgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/shipboard/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both stdout and a file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) (func() error, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "loadgen_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file.Close, nil
}

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	os.Stdout.WriteString(`Shipboard Load Generator
========================

Fires counted requests at a running dashboard and checks that the request
counter moved by exactly the number of requests that got an answer.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string
        Base URL of the dashboard (default "http://localhost:5000")
  -requests int
        Number of counted requests to fire (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write a JSON report to this file
  -log string
        Log file for run output (default: loadgen_TIMESTAMP.log)
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  # Default run against a local server
  go run ./cmd/loadgen

  # Heavier run with a report
  go run ./cmd/loadgen -requests 20000 -workers 32 -output report.json

The check is only exact when nothing else is talking to the dashboard.
`)
}
