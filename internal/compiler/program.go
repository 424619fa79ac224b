package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// CompileSequence generates one repetition of the named sequence and
// compiles it into a Program. It is reentrant: every call builds its own
// channels, catalog and table.
func CompileSequence(hw sequence.Hardware, name string, args ...float64) (ir.Program, error) {
	channels, err := sequence.Generate(hw, name, args...)
	if err != nil {
		return ir.Program{}, fmt.Errorf("generate %s: %w", name, err)
	}
	res, err := CompileChannels(channels)
	if err != nil {
		return ir.Program{}, fmt.Errorf("compile %s: %w", name, err)
	}
	return ir.Program{
		Sequence:     name,
		Args:         slices.Clone(args),
		QuantumNS:    hw.QuantumNS,
		TotalNS:      res.Table.Total(),
		Instructions: res.Instructions,
	}, nil
}
