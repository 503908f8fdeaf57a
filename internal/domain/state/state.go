// Package state holds the process-wide session state: immutable deployment
// metadata and the shared request counter.
package state

import (
	"sync"

	"github.com/okian/shipboard/internal/domain/types"
)

// State owns the request counter and deployment metadata. The counter only
// ever moves forward and is reset by process restart.
type State struct {
	mu       sync.Mutex
	requests int64

	info types.DeploymentInfo
}

// New creates State for the given deployment. info is copied and never changed.
func New(info types.DeploymentInfo) *State {
	return &State{info: info}
}

// IncrementAndRead adds one to the counter and returns the new value.
func (s *State) IncrementAndRead() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	return s.requests
}

// Count returns the current counter value without modifying it.
func (s *State) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// DeploymentInfo returns the deployment metadata.
func (s *State) DeploymentInfo() types.DeploymentInfo {
	return s.info
}
