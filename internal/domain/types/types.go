// Package types contains the JSON shapes shared between the domain and HTTP layers.
package types

import "time"

// DeploymentInfo describes the running build. Created once at startup.
type DeploymentInfo struct {
	Version     string    `json:"version"`
	DeployedAt  time.Time `json:"deployed_at"`
	Environment string    `json:"environment"`
	GitCommit   string    `json:"git_commit"`
	BuildNumber string    `json:"build_number"`
}

// MetricsSnapshot is a point-in-time view of host usage and session counters.
// ResponseTimeEstimate is synthetic: derived from CPUPercent, never measured.
type MetricsSnapshot struct {
	CPUPercent           float64   `json:"cpu_percent"`
	MemoryPercent        float64   `json:"memory_percent"`
	MemoryUsed           uint64    `json:"memory_used"`
	MemoryTotal          uint64    `json:"memory_total"`
	RequestCount         int64     `json:"request_count"`
	Uptime               string    `json:"uptime"`
	ResponseTimeEstimate float64   `json:"response_time_estimate"`
	Timestamp            time.Time `json:"timestamp"`
}

// HealthCheck is the result of one subsystem check.
type HealthCheck struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	ResponseTimeMS int    `json:"response_time_ms"`
}

// HealthReport aggregates subsystem checks.
type HealthReport struct {
	Status    string        `json:"status"`
	Checks    []HealthCheck `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
}

// DeploymentRecord is one entry in the deployment history.
type DeploymentRecord struct {
	Version    string    `json:"version"`
	DeployedAt time.Time `json:"deployed_at"`
	Status     string    `json:"status"`
	Duration   string    `json:"duration"`
	DeployedBy string    `json:"deployed_by"`
}

// FeatureToggle reports the outcome of a toggle request. Nothing is persisted.
type FeatureToggle struct {
	Feature string `json:"feature"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// LoadResult reports a simulated load run.
type LoadResult struct {
	Status     string `json:"status"`
	Iterations int    `json:"iterations"`
	DurationMS int64  `json:"duration_ms"`
}

// PlatformInfo carries host platform strings.
type PlatformInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
	CPUCount        int    `json:"cpu_count"`
	GoVersion       string `json:"go_version"`
}

// SystemInfo combines platform strings with deployment metadata.
type SystemInfo struct {
	PlatformInfo
	DeploymentInfo DeploymentInfo `json:"deployment_info"`
}
