package snapshot

import (
	"errors"
	"fmt"
)

// ErrResourceQuery is matched by every ResourceQueryError via errors.Is.
var ErrResourceQuery = errors.New("host resource query failed")

// Resource names reported by ResourceQueryError.
const (
	ResourceCPU    = "cpu"
	ResourceMemory = "memory"
)

// ResourceQueryError reports a failed host query. No partial snapshot is
// produced when it is returned.
type ResourceQueryError struct {
	Resource string
	Err      error
}

func (e *ResourceQueryError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Resource, e.Err)
}

func (e *ResourceQueryError) Unwrap() error { return e.Err }

// Is lets callers match any resource failure with errors.Is(err, ErrResourceQuery).
func (e *ResourceQueryError) Is(target error) bool { return target == ErrResourceQuery }
