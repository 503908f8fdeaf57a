// Package features hands out random feature toggles for the demo dashboard.
// No flag state is stored: every call is an independent draw.
package features

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/shipboard/internal/domain/fixtures"
	"github.com/okian/shipboard/internal/domain/types"
)

// Option applies a configuration option to the Toggler.
type Option func(*Toggler)

// WithSeed makes the draws reproducible.
func WithSeed(seed int64) Option {
	return func(t *Toggler) {
		t.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // demo randomness
	}
}

// WithFeatures replaces the feature names to draw from. Empty lists are ignored.
func WithFeatures(names []string) Option {
	return func(t *Toggler) {
		if len(names) > 0 {
			t.features = append([]string(nil), names...)
		}
	}
}

// Toggler picks a random feature and a random state.
type Toggler struct {
	mu       sync.Mutex
	rng      *rand.Rand
	features []string
}

// NewToggler creates a Toggler over the demo feature names.
func NewToggler(opts ...Option) *Toggler {
	t := &Toggler{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // demo randomness
		features: fixtures.FeatureNames(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Toggle draws a feature name and an enabled flag.
func (t *Toggler) Toggle() types.FeatureToggle {
	t.mu.Lock()
	name := t.features[t.rng.Intn(len(t.features))]
	enabled := t.rng.Intn(2) == 1
	t.mu.Unlock()

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return types.FeatureToggle{
		Feature: name,
		Enabled: enabled,
		Message: fmt.Sprintf("Feature '%s' has been %s", name, state),
	}
}

// Features returns the names this Toggler draws from.
func (t *Toggler) Features() []string {
	return append([]string(nil), t.features...)
}
