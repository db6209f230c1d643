// SPDX-License-Identifier: MIT
package freqdet

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// GoDSPPlanner builds forward-transform plans backed by go-dsp. Unlike the
// gonum backend it allocates on every transform, but its package-level FFT
// is reentrant, so plans need no serialization.
type GoDSPPlanner struct{}

func (GoDSPPlanner) PlanForward(n int) (Plan, error) {
	if n < 1 {
		return nil, fmt.Errorf("go-dsp planner: invalid transform length %d", n)
	}
	return goDSPPlan{n: n}, nil
}

type goDSPPlan struct {
	n int
}

func (p goDSPPlan) Process(buf []complex128) error {
	if len(buf) != p.n {
		return fmt.Errorf("go-dsp plan: buffer length %d does not match transform length %d", len(buf), p.n)
	}
	copy(buf, fft.FFT(buf))
	return nil
}
