// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"freqdetect/cmd"
	"freqdetect/internal/audio"
	"freqdetect/internal/config"
	applog "freqdetect/internal/log"
	"freqdetect/internal/transport"
	"freqdetect/pkg/freqdet"
)

// main runs in three phases: argument parsing and one-off commands,
// the live capture loop, and shutdown on SIGINT/SIGTERM.
func main() {
	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if !cfg.Live {
		// A one-off command already ran inside ParseArgs.
		return
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if cfg.Verbose {
		applog.SetLevel(applog.LevelDebug)
	}

	if err := audio.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer audio.Terminate()

	planner, err := freqdet.PlannerByName(cfg.Backend)
	if err != nil {
		applog.Fatalf("%v", err)
	}
	detector, err := freqdet.NewWithPlanner(planner, int(cfg.SampleRate), cfg.WindowSize)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	publisher, err := buildPublisher(cfg)
	if err != nil {
		applog.Fatalf("%v", err)
	}
	defer publisher.Close()

	engine, err := audio.NewEngine(cfg, detector, publisher)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	if err := engine.Start(); err != nil {
		applog.Fatalf("%v", err)
	}

	if cfg.Record {
		output := cfg.OutputFile
		if output == "" {
			output = "recording-" + time.Now().UTC().Format("2006-01-02-150405") + ".wav"
		}
		if err := engine.StartRecording(output); err != nil {
			applog.Fatalf("%v", err)
		}
	}

	// Block until a termination signal arrives.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	applog.Infof("shutting down")
	if err := engine.Close(); err != nil {
		applog.Errorf("closing engine: %v", err)
	}
}

// buildPublisher assembles the configured transports; results always go
// to the log in addition to any network transport.
func buildPublisher(cfg *config.Config) (transport.Transport, error) {
	publishers := transport.Multi{transport.Log{}}

	if cfg.WebSocketAddr != "" {
		ws, err := transport.NewWebSocket(cfg.WebSocketAddr)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, ws)
	}
	if cfg.UDPAddr != "" {
		udp, err := transport.NewUDP(cfg.UDPAddr)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, udp)
	}
	return publishers, nil
}
