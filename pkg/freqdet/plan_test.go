// SPDX-License-Identifier: MIT
package freqdet

import (
	"math"
	"testing"

	"freqdetect/pkg/synth"
)

func TestPlannerByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Planner
		wantErr bool
	}{
		{"gonum", GonumPlanner{}, false},
		{"godsp", GoDSPPlanner{}, false},
		{"", GonumPlanner{}, false},
		{"fftw", nil, true},
	}

	for _, tt := range tests {
		planner, err := PlannerByName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("PlannerByName(%q): expected error, got %T", tt.name, planner)
			}
			continue
		}
		if err != nil {
			t.Errorf("PlannerByName(%q) failed: %v", tt.name, err)
			continue
		}
		if planner != tt.want {
			t.Errorf("PlannerByName(%q) = %T, want %T", tt.name, planner, tt.want)
		}
	}
}

func TestPlanRejectsWrongLength(t *testing.T) {
	for _, planner := range []Planner{GonumPlanner{}, GoDSPPlanner{}} {
		plan, err := planner.PlanForward(64)
		if err != nil {
			t.Fatalf("%T: PlanForward failed: %v", planner, err)
		}
		if err := plan.Process(make([]complex128, 32)); err == nil {
			t.Errorf("%T: expected error for mismatched buffer length", planner)
		}
	}
}

func TestPlannerRejectsInvalidLength(t *testing.T) {
	for _, planner := range []Planner{GonumPlanner{}, GoDSPPlanner{}} {
		if _, err := planner.PlanForward(0); err == nil {
			t.Errorf("%T: expected error for zero transform length", planner)
		}
	}
}

// TestBackendsAgree runs the same detection through both transform
// backends; they compute the same DFT, so the estimates must match to
// within floating-point noise.
func TestBackendsAgree(t *testing.T) {
	samples := synth.Mix(4096, 44100,
		synth.Tone{Frequency: 440, Amplitude: 1},
		synth.Tone{Frequency: 101, Amplitude: 0.3},
	)

	results := make(map[string]float64)
	for name, planner := range map[string]Planner{
		"gonum": GonumPlanner{},
		"godsp": GoDSPPlanner{},
	} {
		det, err := NewWithPlanner(planner, 44100, 4096)
		if err != nil {
			t.Fatalf("%s: NewWithPlanner failed: %v", name, err)
		}
		freq, err := det.Detect(samples)
		if err != nil {
			t.Fatalf("%s: Detect failed: %v", name, err)
		}
		results[name] = freq
	}

	if diff := math.Abs(results["gonum"] - results["godsp"]); diff > 1e-6 {
		t.Errorf("backends disagree: gonum %.9f vs godsp %.9f", results["gonum"], results["godsp"])
	}
}

// TestBackendsHandleArbitraryLength covers a non-power-of-two window,
// which both backends support (fftpack and Bluestein respectively).
func TestBackendsHandleArbitraryLength(t *testing.T) {
	const n = 6000
	for name, planner := range map[string]Planner{
		"gonum": GonumPlanner{},
		"godsp": GoDSPPlanner{},
	} {
		det, err := NewWithPlanner(planner, 44100, n)
		if err != nil {
			t.Fatalf("%s: NewWithPlanner failed: %v", name, err)
		}
		freq, err := det.Detect(synth.Sine(n, 44100, 440))
		if err != nil {
			t.Fatalf("%s: Detect failed: %v", name, err)
		}
		if math.Abs(freq-440) > 1 {
			t.Errorf("%s: detected %.3f Hz, expected ~440 Hz", name, freq)
		}
	}
}
