// SPDX-License-Identifier: MIT
package freqdet

import "fmt"

// Planner builds reusable forward-transform plans. A plan is bound to a
// fixed transform length at creation time and is the only capability the
// detector needs from a transform library.
type Planner interface {
	// PlanForward returns a forward DFT plan of length n.
	PlanForward(n int) (Plan, error)
}

// Plan computes an in-place complex-to-complex forward DFT over a buffer
// whose length was fixed when the plan was created. Plans handed to a
// Detector must either be reentrant or serialize Process internally; the
// Detector shares one plan across all Detect calls.
type Plan interface {
	Process(buf []complex128) error
}

// PlannerByName resolves a transform backend by its configuration name.
// Supported names are "gonum" (default) and "godsp".
func PlannerByName(name string) (Planner, error) {
	switch name {
	case "", "gonum":
		return GonumPlanner{}, nil
	case "godsp":
		return GoDSPPlanner{}, nil
	default:
		return nil, fmt.Errorf("freqdet: unknown transform backend %q", name)
	}
}
