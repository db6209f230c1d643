// SPDX-License-Identifier: MIT

// Package wavscan runs the frequency detector over the contents of a WAV
// file, one fixed-size window at a time.
package wavscan

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	"freqdetect/pkg/freqdet"

	goaudio "github.com/go-audio/audio"
)

// chunkFrames is the number of frames decoded per read.
const chunkFrames = 2048

// Segment is the detection result for one window of the file.
type Segment struct {
	Offset    time.Duration // position of the window start in the file
	Frequency float64       // Hz; 0 means no detectable tone
}

// Report is the outcome of scanning a whole file.
type Report struct {
	SampleRate int
	Channels   int
	Window     int
	Segments   []Segment
}

// Scan decodes path and detects the dominant frequency of each
// consecutive windowSize-sample stretch of the first channel. A trailing
// partial window is discarded. The detector is built from the file's own
// sample rate using the given transform backend.
func Scan(path string, windowSize int, planner freqdet.Planner) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavscan: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavscan: %s is not a valid WAV file", path)
	}

	sampleRate := int(dec.SampleRate)
	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("wavscan: %s declares no channels", path)
	}

	det, err := freqdet.NewWithPlanner(planner, sampleRate, windowSize)
	if err != nil {
		return nil, fmt.Errorf("wavscan: %w", err)
	}

	// Normalize integer PCM to the [-1, 1] float convention the detector
	// is calibrated for.
	scale := 1 / float64(uint64(1)<<(dec.BitDepth-1))
	windowDur := time.Duration(float64(windowSize) / float64(sampleRate) * float64(time.Second))

	report := &Report{
		SampleRate: sampleRate,
		Channels:   channels,
		Window:     windowSize,
	}

	window := make([]float32, windowSize)
	pos := 0
	// Chunk length is a multiple of the channel count so frames never
	// straddle a read boundary.
	buf := &goaudio.IntBuffer{Data: make([]int, chunkFrames*channels)}

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("wavscan: reading PCM: %w", err)
		}
		if n == 0 {
			break
		}
		for i := 0; i+channels-1 < n; i += channels {
			window[pos] = float32(float64(buf.Data[i]) * scale)
			pos++
			if pos < windowSize {
				continue
			}
			pos = 0

			freq, err := det.Detect(window)
			if err != nil {
				offset := time.Duration(len(report.Segments)) * windowDur
				return nil, fmt.Errorf("wavscan: window at %s: %w", offset, err)
			}
			report.Segments = append(report.Segments, Segment{
				Offset:    time.Duration(len(report.Segments)) * windowDur,
				Frequency: freq,
			})
		}
	}

	return report, nil
}
