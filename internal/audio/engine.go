// SPDX-License-Identifier: MIT
/*
Package audio implements the live capture side of the detector:

  - PortAudio float32 input stream, first-channel extraction
  - fixed-size window assembly with a ring of reusable buffers
  - a detection worker fed through a non-blocking hand-off, so the
    real-time callback never waits on the transform
  - a level gate that skips detection on near-silent windows
  - optional WAV recording of the raw input

The callback path performs no allocations once the stream is running;
windows are dropped (and counted) when the worker falls behind.
*/
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"freqdetect/internal/config"
	applog "freqdetect/internal/log"
	"freqdetect/internal/transport"
	"freqdetect/pkg/freqdet"

	goaudio "github.com/go-audio/audio"
)

// windowBuffers is the size of the reusable window ring: one buffer being
// filled, one in flight to the worker, one spare.
const windowBuffers = 3

type Engine struct {
	cfg       *config.Config
	detector  *freqdet.Detector
	publisher transport.Transport

	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Window assembly. window is the buffer currently being filled in the
	// callback; full windows travel to the worker through pending and
	// come back through free.
	window    []float32
	windowPos int
	pending   chan []float32
	free      chan []float32
	dropped   atomic.Uint64

	gateEnabled   bool
	gateThreshold float32

	done chan struct{}
	wg   sync.WaitGroup

	// Recording state.
	recording  atomic.Bool
	wavFile    *os.File
	wavEncoder *wav.Encoder
	sampleBuf  *goaudio.IntBuffer
}

// NewEngine wires a capture engine to an already-constructed detector and
// result publisher. The detector's sample count defines the window size;
// its sample rate must match cfg.SampleRate.
func NewEngine(cfg *config.Config, det *freqdet.Detector, pub transport.Transport) (*Engine, error) {
	if det.SampleRate() != int(cfg.SampleRate) {
		return nil, fmt.Errorf("audio: detector sample rate %d does not match configured rate %.0f",
			det.SampleRate(), cfg.SampleRate)
	}

	inputDevice, err := InputDevice(cfg.DeviceID)
	if err != nil {
		return nil, err
	}

	e := newEngineCore(cfg, det, pub)
	e.inputDevice = inputDevice
	if cfg.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}
	return e, nil
}

// newEngineCore builds everything that does not touch PortAudio. Split
// out so the assembly and worker logic is testable without hardware.
func newEngineCore(cfg *config.Config, det *freqdet.Detector, pub transport.Transport) *Engine {
	windowSize := det.SampleCount()

	e := &Engine{
		cfg:           cfg,
		detector:      det,
		publisher:     pub,
		pending:       make(chan []float32, windowBuffers),
		free:          make(chan []float32, windowBuffers),
		gateEnabled:   cfg.GateEnabled,
		gateThreshold: float32(cfg.GateThreshold),
		done:          make(chan struct{}),
	}
	for i := 0; i < windowBuffers-1; i++ {
		e.free <- make([]float32, windowSize)
	}
	e.window = make([]float32, windowSize)
	return e
}

// Start opens the input stream and launches the detection worker. The
// first PortAudio callback marks the start of the hot path.
func (e *Engine) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   e.inputDevice,
			Channels: e.cfg.Channels,
			Latency:  e.inputLatency,
		},
		FramesPerBuffer: e.cfg.FramesPerBuffer,
		SampleRate:      e.cfg.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInput)
	if err != nil {
		return fmt.Errorf("audio: opening input stream: %w", err)
	}
	e.inputStream = stream

	e.wg.Add(1)
	go e.runDetection()

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.shutdownWorker()
		return fmt.Errorf("audio: starting input stream: %w", err)
	}

	applog.Infof("audio: capturing from %q (%.0f Hz, window %d)",
		e.inputDevice.Name, e.cfg.SampleRate, e.detector.SampleCount())
	return nil
}

// Stop halts the input stream and the detection worker.
func (e *Engine) Stop() error {
	if e.inputStream != nil {
		if err := e.inputStream.Stop(); err != nil {
			return fmt.Errorf("audio: stopping input stream: %w", err)
		}
		if err := e.inputStream.Close(); err != nil {
			return fmt.Errorf("audio: closing input stream: %w", err)
		}
		e.inputStream = nil
	}
	e.shutdownWorker()

	if n := e.dropped.Load(); n > 0 {
		applog.Warnf("audio: dropped %d windows (detection worker busy)", n)
	}
	return nil
}

// Close stops recording and capture.
func (e *Engine) Close() error {
	if e.recording.Load() {
		if err := e.StopRecording(); err != nil {
			return err
		}
	}
	return e.Stop()
}

// Dropped returns the number of full windows discarded because the
// detection worker was busy.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) shutdownWorker() {
	select {
	case <-e.done:
	default:
		close(e.done)
	}
	e.wg.Wait()
}

// processInput is the PortAudio callback. No allocations, no blocking.
func (e *Engine) processInput(in []float32) {
	if e.recording.Load() && e.wavEncoder != nil {
		e.writeRecording(in)
	}

	// First channel only for multi-channel devices.
	step := e.cfg.Channels
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(in); i += step {
		e.pushSample(in[i])
	}
}

// pushSample appends one mono sample to the current window and hands the
// window to the detection worker when it fills up.
func (e *Engine) pushSample(s float32) {
	e.window[e.windowPos] = s
	e.windowPos++
	if e.windowPos < len(e.window) {
		return
	}
	e.windowPos = 0

	// Gate: skip detection entirely on near-silent windows and refill the
	// same buffer. The detector would report 0.0 anyway; skipping saves
	// the transform.
	if e.gateEnabled && maxAbs(e.window) < e.gateThreshold {
		return
	}

	select {
	case next := <-e.free:
		// pending has capacity for every buffer in the ring, so this
		// send cannot block while we hold one.
		e.pending <- e.window
		e.window = next
	default:
		// Worker owns every spare buffer; drop the window.
		e.dropped.Add(1)
	}
}

// runDetection receives full windows, runs the detector, and publishes
// results until the engine shuts down.
func (e *Engine) runDetection() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case buf := <-e.pending:
			freq, err := e.detector.Detect(buf)
			level := rms(buf)
			e.free <- buf

			if err != nil {
				applog.Errorf("audio: detection failed: %v", err)
				continue
			}
			res := transport.Result{
				Frequency:  freq,
				RMS:        level,
				Window:     e.detector.SampleCount(),
				SampleRate: e.cfg.SampleRate,
				At:         time.Now().UTC(),
			}
			if err := e.publisher.Send(res); err != nil {
				applog.Warnf("audio: publishing result: %v", err)
			}
		}
	}
}

// rms returns the root-mean-square level of buf.
func rms(buf []float32) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, s := range buf {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(buf)))
}
