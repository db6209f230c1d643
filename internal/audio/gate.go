// SPDX-License-Identifier: MIT
package audio

// EnableGate turns the level gate on.
func (e *Engine) EnableGate() { e.gateEnabled = true }

// DisableGate turns the level gate off; every full window is detected.
func (e *Engine) DisableGate() { e.gateEnabled = false }

// SetGateThreshold sets the gate threshold as a fraction of full scale,
// clamped to [0, 1]. 0 keeps the gate always open.
func (e *Engine) SetGateThreshold(threshold float64) {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	e.gateThreshold = float32(threshold)
}

// GateThreshold returns the current gate threshold.
func (e *Engine) GateThreshold() float64 {
	return float64(e.gateThreshold)
}

// maxAbs returns the peak absolute amplitude in buf.
func maxAbs(buf []float32) float32 {
	var m float32
	for _, s := range buf {
		if s < 0 {
			s = -s
		}
		if s > m {
			m = s
		}
	}
	return m
}
