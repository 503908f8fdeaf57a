// Package snapshot assembles point-in-time metrics snapshots from session
// state and live host resource queries.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/shipboard/internal/domain/types"
)

// BaseLatencyMS is the floor of the synthetic response-time estimate.
const BaseLatencyMS = 50.0

// Memory is a host memory reading.
type Memory struct {
	UsedPercent float64
	Used        uint64
	Total       uint64
}

// Probe queries host resources. CPUPercent may block while it samples.
type Probe interface {
	CPUPercent(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (Memory, error)
}

// Builder turns a counter value and deployment metadata into a snapshot.
// It never touches session state.
type Builder struct {
	probe Probe
}

// NewBuilder creates a Builder backed by probe.
func NewBuilder(probe Probe) *Builder {
	return &Builder{probe: probe}
}

// Build queries the host and returns a fully populated snapshot. A failed
// query yields a *ResourceQueryError and no snapshot.
func (b *Builder) Build(ctx context.Context, count int64, info types.DeploymentInfo, now time.Time) (types.MetricsSnapshot, error) {
	cpu, err := b.probe.CPUPercent(ctx)
	if err != nil {
		return types.MetricsSnapshot{}, &ResourceQueryError{Resource: ResourceCPU, Err: err}
	}
	mem, err := b.probe.Memory(ctx)
	if err != nil {
		return types.MetricsSnapshot{}, &ResourceQueryError{Resource: ResourceMemory, Err: err}
	}

	return types.MetricsSnapshot{
		CPUPercent:           cpu,
		MemoryPercent:        mem.UsedPercent,
		MemoryUsed:           mem.Used,
		MemoryTotal:          mem.Total,
		RequestCount:         count,
		Uptime:               FormatUptime(now.Sub(info.DeployedAt)),
		ResponseTimeEstimate: ResponseTimeEstimate(cpu),
		Timestamp:            now,
	}, nil
}

// FormatUptime renders d as whole hours and minutes, e.g. "2h 15m".
// Hours are not folded into days. Negative durations render as "0h 0m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// ResponseTimeEstimate is a display value, not a measurement: the base
// latency plus a tenth of the CPU percentage, in milliseconds.
func ResponseTimeEstimate(cpuPercent float64) float64 {
	return BaseLatencyMS + cpuPercent/10
}
