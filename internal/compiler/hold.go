package compiler

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// Durations of the two-step static program.
const (
	holdFirstNS  = 200e6 // 200 ms
	holdSecondNS = 100e6 // 100 ms
)

// Hold returns a program that keeps mask on every output indefinitely.
// Two steps are used because a single self-branching instruction cannot be
// programmed before its own address is known.
func Hold(mask uint32) []ir.Instruction {
	return []ir.Instruction{
		{Mask: mask, Op: ir.Continue, Target: 0, Duration: holdFirstNS},
		{Mask: mask, Op: ir.Branch, Target: 0, Duration: holdSecondNS},
	}
}

// Toggle flips the bits of device in state, returning the new state. It is
// the step used to switch single outputs on and off by hand.
func Toggle(state, device uint32) uint32 {
	return state ^ device
}
