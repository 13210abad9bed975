package dynamo

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every analysis.
var (
	// ErrDimensionMismatch indicates matrix or vector shapes that cannot be combined.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrSingularMatrix indicates a zero pivot during inversion.
	ErrSingularMatrix = errors.New("dynamo: singular matrix (zero pivot)")

	// ErrInvalidRequest indicates a request rejected before any computation.
	ErrInvalidRequest = errors.New("dynamo: invalid request")

	// ErrIOConflict indicates an output path that already exists.
	ErrIOConflict = errors.New("dynamo: output already exists")
)

// Invalid wraps ErrInvalidRequest with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// StepError carries the time step at which an integration failed.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
