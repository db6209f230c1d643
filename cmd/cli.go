// SPDX-License-Identifier: MIT

// Package cmd parses command line arguments into a runtime configuration
// and implements the one-off subcommands that do not need the live
// capture engine.
package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"freqdetect/internal/audio"
	"freqdetect/internal/config"
	"freqdetect/internal/wavscan"
	"freqdetect/pkg/build"
	"freqdetect/pkg/freqdet"
	"freqdetect/pkg/synth"
)

// selftestTolerance is the maximum round-trip error accepted by the
// selftest command, matching the detector's own accuracy contract.
const selftestTolerance = 0.5

// ParseArgs builds the configuration from defaults, an optional config
// file, environment overrides, and flags, then executes the CLI. When the
// returned Config has Live set, the caller should run the capture engine.
func ParseArgs() (*config.Config, error) {
	info := build.Get()

	// The config file has to be loaded before flag defaults are bound, so
	// --config is resolved with a pre-scan of the arguments.
	cfg, err := config.Load(configFlagValue(os.Args[1:]))
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:           info.Name,
		Short:         "Detects the dominant frequency of live audio input",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Normalize()
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.Live = true
			return nil
		},
	}

	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML configuration file")

	// Capture flags.
	rootCmd.PersistentFlags().IntVarP(&cfg.DeviceID, "device", "d", cfg.DeviceID,
		"Input device ID; use the 'list' command to see available devices")
	rootCmd.PersistentFlags().IntVarP(&cfg.Channels, "channels", "c", cfg.Channels,
		"Number of input channels to capture (detection uses the first)")
	rootCmd.PersistentFlags().Float64VarP(&cfg.SampleRate, "sample-rate", "s", cfg.SampleRate,
		"Sample rate in Hertz")
	rootCmd.PersistentFlags().IntVarP(&cfg.FramesPerBuffer, "frames-per-buffer", "b", cfg.FramesPerBuffer,
		"Frames per capture buffer (affects latency)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.LowLatency, "low-latency", "l", cfg.LowLatency,
		"Request low latency settings from the input device")

	// Detection flags.
	rootCmd.PersistentFlags().IntVarP(&cfg.WindowSize, "window", "w", cfg.WindowSize,
		"Samples per detection window; larger windows trade latency for accuracy")
	rootCmd.PersistentFlags().StringVar(&cfg.Backend, "backend", cfg.Backend,
		"Transform backend: gonum or godsp")
	rootCmd.PersistentFlags().Float64Var(&cfg.GateThreshold, "gate", cfg.GateThreshold,
		"Level gate threshold as a fraction of full scale; 0 disables gating")

	// Recording flags.
	rootCmd.PersistentFlags().BoolVarP(&cfg.Record, "record", "r", cfg.Record,
		"Record the raw input stream to a WAV file while detecting")
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile,
		"Recording output file")

	// Publishing flags.
	rootCmd.PersistentFlags().StringVar(&cfg.WebSocketAddr, "ws", cfg.WebSocketAddr,
		"Broadcast results as JSON over WebSocket on this address")
	rootCmd.PersistentFlags().StringVar(&cfg.UDPAddr, "udp", cfg.UDPAddr,
		"Send results as JSON datagrams to this address")

	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose,
		"Enable debug logging")

	rootCmd.AddCommand(listCmd(), wavCmd(cfg), selftestCmd(cfg))

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFlagValue extracts the value of --config from raw arguments.
func configFlagValue(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return ""
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := audio.Initialize(); err != nil {
				return err
			}
			defer audio.Terminate()
			return audio.ListDevices()
		},
	}
}

func wavCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "wav <file>",
		Short: "Detect the dominant frequency per window of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, err := freqdet.PlannerByName(cfg.Backend)
			if err != nil {
				return err
			}
			report, err := wavscan.Scan(args[0], cfg.WindowSize, planner)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d Hz, %d channel(s), window %d\n\n",
				args[0], report.SampleRate, report.Channels, report.Window)
			for _, seg := range report.Segments {
				if seg.Frequency == 0 {
					fmt.Printf("%10s  (no tone)\n", seg.Offset)
					continue
				}
				fmt.Printf("%10s  %8.2f Hz\n", seg.Offset, seg.Frequency)
			}
			return nil
		},
	}
}

func selftestCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Verify detection accuracy against synthesized tones",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, err := freqdet.PlannerByName(cfg.Backend)
			if err != nil {
				return err
			}
			det, err := freqdet.NewWithPlanner(planner, int(cfg.SampleRate), cfg.WindowSize)
			if err != nil {
				return err
			}

			fmt.Printf("backend %s, sample rate %.0f Hz, window %d\n\n",
				cfg.Backend, cfg.SampleRate, cfg.WindowSize)

			failed := 0
			for _, freq := range []float64{110, 220, 440, 880, 1760} {
				samples := synth.Sine(cfg.WindowSize, cfg.SampleRate, freq)
				detected, err := det.Detect(samples)
				if err != nil {
					return fmt.Errorf("selftest: %g Hz tone: %w", freq, err)
				}
				status := "ok"
				if math.Abs(detected-freq) > selftestTolerance {
					status = "FAIL"
					failed++
				}
				fmt.Printf("%8.1f Hz -> %9.3f Hz (error %+.3f)  %s\n",
					freq, detected, detected-freq, status)
			}
			if failed > 0 {
				return fmt.Errorf("selftest: %d tone(s) outside ±%.1f Hz", failed, selftestTolerance)
			}
			return nil
		},
	}
}
