package loadgen

import "time"

// Config holds configuration for a load generation run
type Config struct {
	BaseURL    string        // Base URL of the dashboard
	Requests   int           // Number of counted requests to fire
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON report file
	LogFile    string        // Log file for run output
	Verbose    bool          // Log every request
}

// Target is one counted route to hit.
type Target struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Stats holds run statistics
type Stats struct {
	RunID         string         `json:"run_id"`
	Planned       int            `json:"planned"`
	Answered      int            `json:"answered"`
	Failed        int            `json:"failed"`
	StatusCodes   map[string]int `json:"status_codes"`
	BaselineCount int64          `json:"baseline_count"`
	FinalCount    int64          `json:"final_count"`
	CounterDelta  int64          `json:"counter_delta"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	Duration      time.Duration  `json:"duration_ns"`
}
