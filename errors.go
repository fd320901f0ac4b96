package reservoir

import (
	"errors"
	"fmt"
)

var (
	ErrDataInsufficient     = errors.New("reservoir: insufficient data")
	ErrDegenerateExtent     = errors.New("reservoir: degenerate extent")
	ErrInterpolationFailure = errors.New("reservoir: interpolation failed")
	ErrInvalidResolution    = errors.New("reservoir: invalid grid resolution")
	ErrInvalidInput         = errors.New("reservoir: invalid input")
)

// InsufficientDataError reports an operation that needed more unique
// control points than it was given.
type InsufficientDataError struct {
	Op   string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("reservoir: %s needs at least %d unique points, have %d", e.Op, e.Need, e.Have)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrDataInsufficient
}

// DegenerateExtentError reports an axis whose range is empty, or a cell
// area that cannot be used for integration.
type DegenerateExtentError struct {
	Axis string
	Min  float64
	Max  float64
}

func (e *DegenerateExtentError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("reservoir: cell area %g is not a positive finite number", e.Min)
	}
	return fmt.Sprintf("reservoir: %s extent [%g, %g] has zero width", e.Axis, e.Min, e.Max)
}

func (e *DegenerateExtentError) Is(target error) bool {
	return target == ErrDegenerateExtent
}

// InterpolationError is returned when the primary method and the
// fallback both fail.
type InterpolationError struct {
	Primary  Method
	Cause    error
	Fallback Method
	Err      error
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("reservoir: %s interpolation failed (%v), %s fallback failed (%v)", e.Primary, e.Cause, e.Fallback, e.Err)
}

func (e *InterpolationError) Is(target error) bool {
	return target == ErrInterpolationFailure
}

func (e *InterpolationError) Unwrap() error {
	return e.Err
}

// methodError tags a failure of a single interpolation method.
type methodError struct {
	method Method
	msg    string
}

func (e *methodError) Error() string {
	return fmt.Sprintf("%s: %s", e.method, e.msg)
}

func (e *methodError) Is(target error) bool {
	return target == ErrInterpolationFailure
}
