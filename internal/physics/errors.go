package physics

import "errors"

// Domain errors for kernel inputs.
var (
	// ErrInvalidParams indicates a tuning value outside its valid range.
	ErrInvalidParams = errors.New("physics: invalid parameters")

	// ErrNonFinite indicates a NaN or Inf coordinate or quantity.
	ErrNonFinite = errors.New("physics: non-finite value")

	// ErrInvalidSign indicates a placement that is neither positive nor negative.
	ErrInvalidSign = errors.New("physics: charge must be positive or negative")
)
