package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestep indicates a negative or non-finite dt.
	ErrInvalidTimestep = errors.New("sim: invalid timestep")

	// ErrUnknownCharge indicates an id with no live charge.
	ErrUnknownCharge = errors.New("sim: unknown charge")

	// ErrOccupied indicates a placement over an existing charge or while
	// the voltmeter is active.
	ErrOccupied = errors.New("sim: placement blocked")
)

// TickError wraps a failure with the tick it happened on.
type TickError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("sim: tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
