package config

import (
	"fmt"
	"log/slog"

	"github.com/roach88/pulseseq/internal/compiler"
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// Plan is a validated experiment: the hardware, the final scan points and
// the experiment they came from. It is immutable once built.
type Plan struct {
	Experiment Experiment
	Hardware   sequence.Hardware
	Points     []float64
}

// Validate checks an experiment the way a scan would run it: the hardware
// description, the scan points, and a full compilation of the first and
// last point. Rounding adjustments are logged to logger (nil means the
// default logger).
func Validate(e Experiment, logger *slog.Logger) (*Plan, error) {
	if _, err := sequence.Lookup(e.Sequence); err != nil {
		return nil, err
	}
	hw, err := e.HardwareSpec()
	if err != nil {
		return nil, err
	}
	hw.Logger = logger

	points, err := e.ScanPoints(hw)
	if err != nil {
		return nil, err
	}
	p := &Plan{Experiment: e, Hardware: hw, Points: points}

	for _, i := range []int{0, len(points) - 1} {
		if _, err := p.Compile(i); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Args returns the generator arguments for point i.
func (p *Plan) Args(i int) ([]float64, error) {
	if i < 0 || i >= len(p.Points) {
		return nil, ir.NewConfigError(ir.ErrCodeRange, "point", "index %d outside 0..%d", i, len(p.Points)-1)
	}
	return p.Experiment.SequenceArgs(p.Hardware, p.Points[i])
}

// Compile compiles the program for point i.
func (p *Plan) Compile(i int) (ir.Program, error) {
	args, err := p.Args(i)
	if err != nil {
		return ir.Program{}, err
	}
	prog, err := compiler.CompileSequence(p.Hardware, p.Experiment.Sequence, args...)
	if err != nil {
		return ir.Program{}, fmt.Errorf("point %d (%g): %w", i, p.Points[i], err)
	}
	return prog, nil
}
