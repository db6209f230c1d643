// SPDX-License-Identifier: MIT
package freqdet

import (
	"errors"
	"math"
	"sync"
	"testing"

	"freqdetect/pkg/synth"
)

const (
	testSampleRate  = 44100
	testSampleCount = 8192
)

func newTestDetector(t *testing.T, sampleRate, sampleCount int) *Detector {
	t.Helper()
	det, err := New(sampleRate, sampleCount)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", sampleRate, sampleCount, err)
	}
	return det
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name        string
		sampleRate  int
		sampleCount int
		wantErr     error
	}{
		{"typical audio", 44100, 8192, nil},
		{"minimum parameters", 1, 4, nil},
		{"zero sample rate", 0, 8192, ErrSampleRateTooLow},
		{"negative sample rate", -1, 8192, ErrSampleRateTooLow},
		{"three samples", 44100, 3, ErrTooFewSamples},
		{"zero samples", 44100, 0, ErrTooFewSamples},
		{"sample rate checked first", 0, 3, ErrSampleRateTooLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det, err := New(tt.sampleRate, tt.sampleCount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New(%d, %d) error = %v, want %v", tt.sampleRate, tt.sampleCount, err, tt.wantErr)
			}
			if tt.wantErr == nil && det == nil {
				t.Fatal("expected a detector, got nil")
			}
		})
	}
}

func TestDetectSampleCountMismatch(t *testing.T) {
	det := newTestDetector(t, testSampleRate, 1024)

	for _, n := range []int{0, 512, 1023, 1025, 2048} {
		_, err := det.Detect(make([]float32, n))
		var scErr *SampleCountError
		if !errors.As(err, &scErr) {
			t.Fatalf("Detect with %d samples: expected SampleCountError, got %v", n, err)
		}
		if scErr.Expected != 1024 || scErr.Actual != n {
			t.Errorf("SampleCountError = %+v, want Expected=1024 Actual=%d", scErr, n)
		}
	}
}

// TestDetectPureTones feeds single tones mixed with two quieter
// interference tones and expects the dominant frequency back within
// half a Hertz.
func TestDetectPureTones(t *testing.T) {
	det := newTestDetector(t, testSampleRate, testSampleCount)

	for _, freq := range []float64{10, 20, 30, 100, 1000, 2000} {
		samples := synth.Mix(testSampleCount, testSampleRate,
			synth.Tone{Frequency: freq, Amplitude: 1},
			synth.Tone{Frequency: 101, Amplitude: 0.3},
			synth.Tone{Frequency: 120, Amplitude: 0.3},
		)
		detected, err := det.Detect(samples)
		if err != nil {
			t.Fatalf("Detect(%g Hz tone) failed: %v", freq, err)
		}
		if math.Abs(detected-freq) > 0.5 {
			t.Errorf("detected %.3f Hz, expected %.3f Hz", detected, freq)
		}
	}
}

func TestDetectSilence(t *testing.T) {
	det := newTestDetector(t, testSampleRate, testSampleCount)

	freq, err := det.Detect(make([]float32, testSampleCount))
	if err != nil {
		t.Fatalf("Detect on silence failed: %v", err)
	}
	if freq != 0 {
		t.Errorf("expected 0.0 for silence, got %f", freq)
	}
}

func TestDetectNaN(t *testing.T) {
	det := newTestDetector(t, testSampleRate, testSampleCount)

	samples := synth.Sine(testSampleCount, testSampleRate, 440)
	samples[testSampleCount/2] = float32(math.NaN())

	_, err := det.Detect(samples)
	if !errors.Is(err, ErrNaN) {
		t.Fatalf("expected ErrNaN, got %v", err)
	}
}

func TestDetectDeterminism(t *testing.T) {
	det := newTestDetector(t, testSampleRate, testSampleCount)
	samples := synth.Sine(testSampleCount, testSampleRate, 523.25)

	first, err := det.Detect(samples)
	if err != nil {
		t.Fatalf("first Detect failed: %v", err)
	}
	second, err := det.Detect(samples)
	if err != nil {
		t.Fatalf("second Detect failed: %v", err)
	}
	if first != second {
		t.Errorf("results differ: %v vs %v", first, second)
	}
}

// TestResolutionImprovesWithWindowSize checks that doubling the window
// never makes the estimate meaningfully worse.
func TestResolutionImprovesWithWindowSize(t *testing.T) {
	sizes := []int{2048, 4096, 8192}

	for _, freq := range []float64{100, 441, 1000, 2000} {
		prevErr := math.Inf(1)
		for _, size := range sizes {
			det := newTestDetector(t, testSampleRate, size)
			detected, err := det.Detect(synth.Sine(size, testSampleRate, freq))
			if err != nil {
				t.Fatalf("Detect(%g Hz, window %d) failed: %v", freq, size, err)
			}
			estErr := math.Abs(detected - freq)
			if estErr > prevErr+0.05 {
				t.Errorf("%g Hz: window %d error %.4f worse than smaller window error %.4f",
					freq, size, estErr, prevErr)
			}
			prevErr = estErr
		}
	}
}

// TestDetectConcurrent exercises one Detector from many goroutines; the
// shared plan serializes the transform internally, so every call must see
// the same result as a serial run.
func TestDetectConcurrent(t *testing.T) {
	det := newTestDetector(t, testSampleRate, testSampleCount)
	samples := synth.Sine(testSampleCount, testSampleRate, 440)

	want, err := det.Detect(samples)
	if err != nil {
		t.Fatalf("serial Detect failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]float64, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = det.Detect(samples)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if results[i] != want {
			t.Errorf("goroutine %d: got %v, want %v", i, results[i], want)
		}
	}
}

func BenchmarkDetect(b *testing.B) {
	det, err := New(testSampleRate, testSampleCount)
	if err != nil {
		b.Fatal(err)
	}
	samples := synth.Sine(testSampleCount, testSampleRate, 440)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := det.Detect(samples); err != nil {
			b.Fatal(err)
		}
	}
}
