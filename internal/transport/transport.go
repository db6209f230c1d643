// SPDX-License-Identifier: MIT

// Package transport publishes detection results to interested consumers.
// Implementations must be safe for use from the detection worker
// goroutine and must never block it.
package transport

import (
	"errors"
	"time"

	applog "freqdetect/internal/log"
)

// Result is one detection outcome for a single sample window.
type Result struct {
	Frequency  float64   `json:"frequency"` // Hz; 0 means no detectable tone
	RMS        float64   `json:"rms"`       // input level of the window, linear full scale
	Window     int       `json:"window"`    // samples per detection window
	SampleRate float64   `json:"sample_rate"`
	At         time.Time `json:"at"`
}

// Transport delivers results somewhere. Send must not block.
type Transport interface {
	Send(res Result) error
	Close() error
}

// Log is the default transport: it writes results to the application log.
type Log struct{}

func (Log) Send(res Result) error {
	if res.Frequency == 0 {
		applog.Debugf("no tone (rms %.4f)", res.RMS)
		return nil
	}
	applog.Infof("detected %8.2f Hz (rms %.4f)", res.Frequency, res.RMS)
	return nil
}

func (Log) Close() error { return nil }

// Multi fans a result out to several transports. Send and Close both
// visit every member and join the errors.
type Multi []Transport

func (m Multi) Send(res Result) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, t := range m {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Transport = Log{}
	_ Transport = Multi{}
)
