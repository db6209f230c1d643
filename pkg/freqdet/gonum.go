// SPDX-License-Identifier: MIT
package freqdet

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// GonumPlanner builds forward-transform plans backed by gonum's complex
// FFT. This is the default backend.
type GonumPlanner struct{}

func (GonumPlanner) PlanForward(n int) (Plan, error) {
	if n < 1 {
		return nil, fmt.Errorf("gonum planner: invalid transform length %d", n)
	}
	return &gonumPlan{fft: fourier.NewCmplxFFT(n)}, nil
}

// gonumPlan serializes Process with a mutex: CmplxFFT reuses internal
// scratch between calls, so the transform itself is not reentrant even
// though each caller supplies its own buffer.
type gonumPlan struct {
	mu  sync.Mutex
	fft *fourier.CmplxFFT
}

func (p *gonumPlan) Process(buf []complex128) error {
	if len(buf) != p.fft.Len() {
		return fmt.Errorf("gonum plan: buffer length %d does not match transform length %d", len(buf), p.fft.Len())
	}
	p.mu.Lock()
	p.fft.Coefficients(buf, buf)
	p.mu.Unlock()
	return nil
}
