package recovery

import (
	"errors"
	"fmt"
)

// ErrContract is wrapped by every error caused by misuse of the reconstruction API.
// Such errors indicate a bug in the caller's sample selection rather than bad luck with data.
var ErrContract = errors.New("recovery: contract violation")

var (
	ErrNotPowerOfTwo    = fmt.Errorf("%w: row count is not a power of two", ErrContract)
	ErrTooManyRows      = fmt.Errorf("%w: row count exceeds %d", ErrContract, MaxRows)
	ErrEmptyCells       = fmt.Errorf("%w: no cells given", ErrContract)
	ErrColumnMismatch   = fmt.Errorf("%w: cells belong to different columns", ErrContract)
	ErrRowOutOfRange    = fmt.Errorf("%w: cell row is out of range", ErrContract)
	ErrNotEnoughSamples = fmt.Errorf("%w: not enough samples", ErrContract)
	ErrTooManySamples   = fmt.Errorf("%w: too many samples", ErrContract)
	ErrMalformedSample  = fmt.Errorf("%w: malformed sample", ErrContract)
)

// ErrInterpolation is wrapped by every failure to recover the polynomial from valid samples.
var ErrInterpolation = errors.New("recovery: interpolation failed")

// ErrInconsistentSamples is returned when known samples do not lie on one polynomial of the
// expected degree.
var ErrInconsistentSamples = fmt.Errorf("%w: samples are inconsistent", ErrInterpolation)

// SampleError reports the row of a sample that cannot be decoded.
type SampleError struct {
	Row uint16
	Err error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", ErrMalformedSample, e.Row, e.Err)
}

func (e *SampleError) Unwrap() []error {
	return []error{ErrMalformedSample, e.Err}
}
