// SPDX-License-Identifier: MIT
package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"freqdetect/internal/transport"
	"freqdetect/pkg/synth"
)

func TestRecordingStartStop(t *testing.T) {
	e := newTestEngine(t, transport.Log{})
	filename := filepath.Join(t.TempDir(), "capture.wav")

	if err := e.StartRecording(filename); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	if err := e.StartRecording(filename); err == nil {
		t.Error("expected error when starting twice")
	}

	// Simulate a few callback buffers arriving while recording.
	buf := synth.Sine(e.cfg.FramesPerBuffer, testSampleRate, 440)
	for i := 0; i < 4; i++ {
		e.processInput(buf)
	}

	if err := e.StopRecording(); err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	// Idempotent when not recording.
	if err := e.StopRecording(); err != nil {
		t.Errorf("second StopRecording failed: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("opening recording: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("recording is not a valid WAV file")
	}
	dur, err := dec.Duration()
	if err != nil {
		t.Fatalf("reading duration: %v", err)
	}
	if dur <= 0 {
		t.Errorf("expected non-empty recording, duration %v", dur)
	}
}

func TestCloseStopsRecording(t *testing.T) {
	e := newTestEngine(t, transport.Log{})
	filename := filepath.Join(t.TempDir(), "capture.wav")

	if err := e.StartRecording(filename); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if e.recording.Load() {
		t.Error("expected recording stopped after Close")
	}
}
