// SPDX-License-Identifier: MIT
package freqdet

import (
	"errors"
	"fmt"
)

// Construction errors indicate permanent misconfiguration; the caller must
// fix the parameters before calling New again.
var (
	ErrSampleRateTooLow = errors.New("freqdet: sample rate must be at least 1 sample per second")
	ErrTooFewSamples    = errors.New("freqdet: detection needs at least 4 samples")
)

// ErrNaN is returned when the samples, or the spectrum computed from them,
// contain a non-finite value. This is never coerced to a 0.0 result: a 0.0
// means "no detectable tone", while ErrNaN means the input is corrupted
// somewhere upstream.
var ErrNaN = errors.New("freqdet: NaN in samples")

// SampleCountError reports a Detect call whose buffer length does not match
// the sample count the Detector was constructed for. It indicates a
// buffer-assembly bug upstream; the Detector remains usable.
type SampleCountError struct {
	Expected int
	Actual   int
}

func (e *SampleCountError) Error() string {
	return fmt.Sprintf("freqdet: invalid sample count (expected %d, got %d)", e.Expected, e.Actual)
}
