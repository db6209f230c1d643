// SPDX-License-Identifier: MIT
/*
Package freqdet estimates the dominant frequency in a fixed-length buffer
of real-valued samples.

A Detector is constructed once for a fixed (sample rate, sample count)
pair and then fed successive sample buffers of exactly that length:

	det, err := freqdet.New(44100, 8192)
	if err != nil {
		// invalid parameters
	}
	freq, err := det.Detect(samples) // len(samples) == 8192

Each Detect call transforms the buffer into the frequency domain, finds
the strongest pair of adjacent bins in the positive-frequency half, and
refines the peak location with a magnitude-weighted average of the two bin
frequencies. A result of 0.0 with a nil error means the buffer carried no
detectable tone.

The forward transform is an injected capability (see Planner); the default
backend is gonum's complex FFT. A Detector is safe for concurrent use as
long as its plan is: the bundled backends both are.
*/
package freqdet

import (
	"fmt"
	"math"
	"math/cmplx"
)

// minSampleCount is the smallest window that leaves an adjacent-bin pair
// inside the positive-frequency half for interpolation.
const minSampleCount = 4

// noiseFloor is the combined magnitude of a peak window below which the
// buffer is treated as silence. Calibrated for samples in the [-1, 1]
// amplitude convention; other conventions likely need a different value.
const noiseFloor = 0.0001

// Detector estimates the dominant frequency of sample buffers of a fixed
// length. All configuration is immutable after construction.
type Detector struct {
	plan        Plan
	sampleRate  int
	sampleCount int
}

// New returns a Detector for buffers of sampleCount samples captured at
// sampleRate samples per second, using the default gonum transform
// backend. sampleRate 44100 covers most modern audio; sampleCount between
// 2048 and 8192 works well, with larger windows trading latency for
// accuracy.
func New(sampleRate, sampleCount int) (*Detector, error) {
	return NewWithPlanner(GonumPlanner{}, sampleRate, sampleCount)
}

// NewWithPlanner is New with an explicit transform backend.
func NewWithPlanner(planner Planner, sampleRate, sampleCount int) (*Detector, error) {
	if sampleRate < 1 {
		return nil, ErrSampleRateTooLow
	}
	if sampleCount < minSampleCount {
		return nil, ErrTooFewSamples
	}
	plan, err := planner.PlanForward(sampleCount)
	if err != nil {
		return nil, fmt.Errorf("freqdet: planning forward transform: %w", err)
	}
	return &Detector{
		plan:        plan,
		sampleRate:  sampleRate,
		sampleCount: sampleCount,
	}, nil
}

// SampleRate returns the sample rate the Detector was constructed with.
func (d *Detector) SampleRate() int { return d.sampleRate }

// SampleCount returns the exact buffer length every Detect call must
// supply.
func (d *Detector) SampleCount() int { return d.sampleCount }

// Detect returns the dominant frequency of samples in Hz, or 0.0 if the
// spectral peak is below the noise floor. len(samples) must equal
// SampleCount exactly; no truncation or padding is performed.
func (d *Detector) Detect(samples []float32) (float64, error) {
	if len(samples) != d.sampleCount {
		return 0, &SampleCountError{Expected: d.sampleCount, Actual: len(samples)}
	}

	buf := make([]complex128, d.sampleCount)
	for i, s := range samples {
		buf[i] = complex(float64(s), 0)
	}
	if err := d.plan.Process(buf); err != nil {
		return 0, fmt.Errorf("freqdet: forward transform: %w", err)
	}

	// Slide a window of two adjacent bins across the positive-frequency
	// half and keep the pair with the largest combined magnitude. Strict
	// comparison makes the max stable: the first best window wins.
	half := d.sampleCount / 2
	peak := 0
	peakScore := cmplx.Abs(buf[0]) + cmplx.Abs(buf[1])
	for k := 1; k+1 < half; k++ {
		score := cmplx.Abs(buf[k]) + cmplx.Abs(buf[k+1])
		if score > peakScore {
			peak = k
			peakScore = score
		}
	}

	// Silence short-circuit. Must happen before interpolation, which would
	// otherwise divide by a near-zero magnitude sum. A NaN score fails
	// this comparison and falls through to the finiteness check below.
	if peakScore < noiseFloor {
		return 0, nil
	}

	// Weighted average of the two bin frequencies, biased toward the bin
	// carrying more energy. For a clean tone between two bins the leakage
	// ratio tracks the fractional bin offset, which is what makes this
	// centroid land near the true frequency.
	m0 := cmplx.Abs(buf[peak])
	m1 := cmplx.Abs(buf[peak+1])
	freq := (d.binFrequency(peak)*m0 + d.binFrequency(peak+1)*m1) / (m0 + m1)

	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, ErrNaN
	}
	return freq, nil
}

// binFrequency converts a transform bin index to its center frequency.
func (d *Detector) binFrequency(bin int) float64 {
	return float64(bin) * float64(d.sampleRate) / float64(d.sampleCount)
}
