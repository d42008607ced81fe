package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a filter is constructed with invalid parameters.
	ErrConfig = errors.New("invalid filter configuration")
	// ErrValidation is returned when supplied particles or weights do not match the filter.
	ErrValidation = errors.New("validation failed")
	// ErrDegenerateWeights is returned when particle scores sum up to zero
	// and the weights can not be normalized.
	ErrDegenerateWeights = errors.New("degenerate particle weights")
	// ErrInvalidScore is returned when a measurement model yields a negative or NaN score.
	ErrInvalidScore = errors.New("invalid measurement score")
)

// ModelError is returned when a motion, measurement or estimator model fails.
// Err is the error returned by the model itself.
type ModelError struct {
	// Op is the filter step which invoked the model
	Op string
	// Index is the particle index or -1 if the failure is not particle specific
	Index int
	// Err is the model error
	Err error
}

// Error implements error interface
func (e *ModelError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: particle %d: %v", e.Op, e.Index, e.Err)
}

// Unwrap returns the model error
func (e *ModelError) Unwrap() error {
	return e.Err
}
