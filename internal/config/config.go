// SPDX-License-Identifier: MIT

// Package config holds the runtime configuration for the capture and
// detection application. Values come from built-in defaults, an optional
// YAML file, environment overrides, and command line flags, in that order.
package config

import (
	"fmt"

	"freqdetect/pkg/bitint"
	"freqdetect/pkg/freqdet"
)

// Defaults and limits for the capture pipeline. The detector itself only
// requires a window of at least 4 samples; the tighter bounds here are
// what makes sense for live audio hardware.
const (
	DefaultDeviceID        = MinDeviceID // system default input device
	DefaultChannels        = 1
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 512
	DefaultWindowSize      = 8192 // samples per detection window
	DefaultLowLatency      = false
	DefaultBackend         = "gonum"
	DefaultGateThreshold   = 0.001 // fraction of full scale
	DefaultLogLevel        = "info"

	MinDeviceID   = -1 // -1 selects the system default device
	MinSampleRate = 8000
	MaxSampleRate = 192000
	MaxWindowSize = 1 << 16
)

// Config holds all runtime options.
type Config struct {
	// Capture settings.
	DeviceID        int     `yaml:"device_id"`
	Channels        int     `yaml:"channels"`
	SampleRate      float64 `yaml:"sample_rate"`
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
	LowLatency      bool    `yaml:"low_latency"`

	// Detection settings.
	WindowSize    int     `yaml:"window_size"`
	Backend       string  `yaml:"backend"` // "gonum" or "godsp"
	GateEnabled   bool    `yaml:"gate_enabled"`
	GateThreshold float64 `yaml:"gate_threshold"`

	// Recording settings.
	Record     bool   `yaml:"record"`
	OutputFile string `yaml:"output_file"`

	// Publishing settings. Empty addresses disable the transport.
	WebSocketAddr string `yaml:"websocket_addr"`
	UDPAddr       string `yaml:"udp_addr"`

	// Diagnostics.
	LogLevel string `yaml:"log_level"`
	Verbose  bool   `yaml:"verbose"`

	// Live reports whether the root command should run the capture
	// engine. Set by the CLI, never by file or environment.
	Live bool `yaml:"-"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DeviceID:        DefaultDeviceID,
		Channels:        DefaultChannels,
		SampleRate:      DefaultSampleRate,
		FramesPerBuffer: DefaultFramesPerBuffer,
		LowLatency:      DefaultLowLatency,
		WindowSize:      DefaultWindowSize,
		Backend:         DefaultBackend,
		GateEnabled:     true,
		GateThreshold:   DefaultGateThreshold,
		LogLevel:        DefaultLogLevel,
	}
}

// Normalize rounds the window and buffer sizes up to powers of 2. The
// detector accepts arbitrary window lengths; rounding keeps the capture
// path on the fast transform sizes.
func (c *Config) Normalize() {
	c.WindowSize = bitint.NextPowerOfTwo(c.WindowSize)
	c.FramesPerBuffer = bitint.NextPowerOfTwo(c.FramesPerBuffer)
}

// Validate checks the configuration for values the capture pipeline
// cannot work with.
func (c *Config) Validate() error {
	if c.Channels < 1 {
		return fmt.Errorf("config: channels must be at least 1, got %d", c.Channels)
	}
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("config: sample rate %.0f outside supported range [%d, %d]",
			c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.FramesPerBuffer < 1 {
		return fmt.Errorf("config: frames per buffer must be positive, got %d", c.FramesPerBuffer)
	}
	if c.WindowSize < 4 || c.WindowSize > MaxWindowSize {
		return fmt.Errorf("config: window size %d outside supported range [4, %d]",
			c.WindowSize, MaxWindowSize)
	}
	if c.GateThreshold < 0 || c.GateThreshold > 1 {
		return fmt.Errorf("config: gate threshold %.3f outside [0, 1]", c.GateThreshold)
	}
	if _, err := freqdet.PlannerByName(c.Backend); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
