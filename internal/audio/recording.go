// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	applog "freqdetect/internal/log"

	goaudio "github.com/go-audio/audio"
)

// recordingBitDepth is fixed at 32-bit PCM; captured float32 samples are
// rescaled to the full int32 range.
const recordingBitDepth = 32

// StartRecording begins writing the raw input stream to a WAV file.
func (e *Engine) StartRecording(filename string) error {
	if e.recording.Load() {
		return fmt.Errorf("audio: already recording")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("audio: creating recording file: %w", err)
	}
	e.wavFile = file
	e.wavEncoder = wav.NewEncoder(file, int(e.cfg.SampleRate),
		recordingBitDepth, e.cfg.Channels, 1)
	e.sampleBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: e.cfg.Channels,
			SampleRate:  int(e.cfg.SampleRate),
		},
		Data: make([]int, e.cfg.FramesPerBuffer*e.cfg.Channels),
	}

	e.recording.Store(true)
	applog.Infof("audio: recording to %s", filename)
	return nil
}

// StopRecording finalizes the WAV file. It is a no-op when not recording.
func (e *Engine) StopRecording() error {
	if !e.recording.Load() {
		return nil
	}
	e.recording.Store(false)

	if e.wavEncoder != nil {
		if err := e.wavEncoder.Close(); err != nil {
			return fmt.Errorf("audio: finalizing recording: %w", err)
		}
		e.wavEncoder = nil
	}
	if e.wavFile != nil {
		if err := e.wavFile.Close(); err != nil {
			return fmt.Errorf("audio: closing recording file: %w", err)
		}
		e.wavFile = nil
	}
	return nil
}

// writeRecording converts one callback buffer to PCM and appends it to
// the encoder. Called from the capture callback.
func (e *Engine) writeRecording(in []float32) {
	data := e.sampleBuf.Data[:cap(e.sampleBuf.Data)]
	n := len(in)
	if n > len(data) {
		n = len(data)
	}
	for i := 0; i < n; i++ {
		data[i] = int(float64(in[i]) * (math.MaxInt32 - 1))
	}
	e.sampleBuf.Data = data[:n]

	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		applog.Errorf("audio: writing recording: %v", err)
	}
}
