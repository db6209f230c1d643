// SPDX-License-Identifier: MIT

// Package synth generates deterministic float32 test signals for the
// detector self-test and for package tests.
package synth

import "math"

// Tone is a single sinusoidal component of a synthesized signal.
type Tone struct {
	Frequency float64 // Hz
	Amplitude float64 // linear, 1.0 = full scale
}

// Sine returns n samples of a unit-amplitude sine at freq Hz sampled at
// sampleRate Hz.
func Sine(n int, sampleRate, freq float64) []float32 {
	return Mix(n, sampleRate, Tone{Frequency: freq, Amplitude: 1})
}

// Mix returns n samples of the sum of the given tones. The caller is
// responsible for keeping the summed amplitude in a sensible range.
func Mix(n int, sampleRate float64, tones ...Tone) []float32 {
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / sampleRate
		var s float64
		for _, tone := range tones {
			s += tone.Amplitude * math.Sin(2*math.Pi*tone.Frequency*t)
		}
		out[i] = float32(s)
	}
	return out
}
