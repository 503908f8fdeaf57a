// Package loadsim burns CPU on purpose so the dashboard has something to show.
package loadsim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"
)

const (
	// DefaultIterations is the loop size used when none is configured.
	DefaultIterations = 1_000_000
	// checkEvery bounds how long a cancelled run keeps spinning.
	checkEvery = 10_000
)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithIterations sets the busy-loop size. Negative values are ignored.
func WithIterations(n int) Option {
	return func(s *Simulator) {
		if n >= 0 {
			s.iterations = n
		}
	}
}

// Simulator runs a fixed-size busy loop.
type Simulator struct {
	iterations int
}

// New creates a Simulator.
func New(opts ...Option) *Simulator {
	s := &Simulator{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Iterations reports the configured loop size.
func (s *Simulator) Iterations() int { return s.iterations }

// Run spins through the loop and returns the elapsed wall time, which is
// never negative. Cancellation is checked every few thousand iterations.
func (s *Simulator) Run(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	var acc float64
	for i := 0; i < s.iterations; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return time.Since(start), fmt.Errorf("load simulation cancelled: %w", err)
			}
		}
		acc += math.Sqrt(float64(i))
	}
	runtime.KeepAlive(acc)
	elapsed := time.Since(start)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, nil
}
