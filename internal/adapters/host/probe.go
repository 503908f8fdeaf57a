// Package host queries CPU, memory and platform information from the
// operating system through gopsutil.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	gohost "github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/okian/shipboard/internal/domain/snapshot"
	"github.com/okian/shipboard/internal/domain/types"
)

const defaultSampleInterval = 200 * time.Millisecond

// ErrNoCPUSample is returned when the platform reports no CPU percentages.
var ErrNoCPUSample = errors.New("no cpu sample returned")

// Option applies a configuration option to the Probe.
type Option func(*Probe)

// WithSampleInterval sets how long CPUPercent samples for. Zero compares
// against the previous call instead of blocking.
func WithSampleInterval(d time.Duration) Option {
	return func(p *Probe) {
		if d >= 0 {
			p.sampleInterval = d
		}
	}
}

// Probe implements snapshot.Probe against the local host.
type Probe struct {
	sampleInterval time.Duration
}

var _ snapshot.Probe = (*Probe)(nil)

// New creates a Probe.
func New(opts ...Option) *Probe {
	p := &Probe{sampleInterval: defaultSampleInterval}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CPUPercent returns system-wide CPU utilization, blocking for the sample interval.
func (p *Probe) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, p.sampleInterval, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, ErrNoCPUSample
	}
	return percents[0], nil
}

// Memory returns virtual memory usage.
func (p *Probe) Memory(ctx context.Context) (snapshot.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return snapshot.Memory{}, fmt.Errorf("virtual memory: %w", err)
	}
	return snapshot.Memory{UsedPercent: vm.UsedPercent, Used: vm.Used, Total: vm.Total}, nil
}

// Platform returns host platform strings. Fields the OS will not report
// fall back to Go runtime values, so the result is always usable; the
// error is informational.
func (p *Probe) Platform(ctx context.Context) (types.PlatformInfo, error) {
	info := types.PlatformInfo{
		OS:        runtime.GOOS,
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUCount:  runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}

	hi, err := gohost.InfoWithContext(ctx)
	if err != nil {
		return info, fmt.Errorf("host info: %w", err)
	}
	if hi.Hostname != "" {
		info.Hostname = hi.Hostname
	}
	if hi.OS != "" {
		info.OS = hi.OS
	}
	if hi.Platform != "" {
		info.Platform = hi.Platform
	}
	info.PlatformVersion = hi.PlatformVersion
	info.KernelVersion = hi.KernelVersion
	if hi.KernelArch != "" {
		info.Arch = hi.KernelArch
	}
	return info, nil
}
