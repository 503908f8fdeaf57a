package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/shipboard/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do sends a bodiless request tagged with requestID.
func (c *HTTPClient) Do(ctx context.Context, method, url, requestID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return resp, nil
}

type metricsResponse struct {
	RequestCount int64 `json:"request_count"`
}

// readCounter fetches /api/metrics. The read is itself counted, so the
// returned value includes it.
func readCounter(ctx context.Context, client *HTTPClient, baseURL, runID string) (int64, error) {
	resp, err := client.Do(ctx, http.MethodGet, baseURL+"/api/metrics", runID+"-probe-"+uuid.NewString())
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read metrics body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("metrics returned %d: %s", resp.StatusCode, body)
	}

	var m metricsResponse
	if err := json.Unmarshal(body, &m); err != nil {
		return 0, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return m.RequestCount, nil
}

// fireRequests sends the plan through a worker pool. A request counts as
// answered when any HTTP status came back, since the server counts before
// it handles.
func fireRequests(ctx context.Context, config *Config, plan []Target, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "firing requests",
		logger.Int("requests", len(plan)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)

	var (
		answered int64
		failed   int64
		mu       sync.Mutex
		codes    = make(map[string]int)
	)

	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				target := plan[i]
				requestID := stats.RunID + "-" + strconv.Itoa(i)

				resp, err := client.Do(ctx, target.Method, config.BaseURL+target.Path, requestID)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "request failed",
						logger.String("path", target.Path),
						logger.String("requestId", requestID),
						logger.Error(err),
					)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()

				atomic.AddInt64(&answered, 1)
				mu.Lock()
				codes[strconv.Itoa(resp.StatusCode)]++
				mu.Unlock()

				if config.Verbose {
					log.Debug(ctx, "request answered",
						logger.String("method", target.Method),
						logger.String("path", target.Path),
						logger.Int("status", resp.StatusCode),
						logger.String("requestId", requestID),
					)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range plan {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.Answered = int(atomic.LoadInt64(&answered))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.StatusCodes = codes

	log.Info(ctx, "request submission completed",
		logger.Int("answered", stats.Answered),
		logger.Int("failed", stats.Failed),
	)
}
