package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates a body whose state became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration that cannot be stepped.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrEmptyWorld indicates a run with no bodies.
	ErrEmptyWorld = errors.New("sim: world has no bodies")
)

// SimulationError wraps an error with the tick at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
