package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pulseseq/internal/compiler"
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
	"github.com/roach88/pulseseq/internal/timeline"
)

// defaultClockMHz is used when a scenario does not set clock_mhz.
const defaultClockMHz = 500

// Run executes a scenario and evaluates its assertions.
//
// A compilation error is not a Run error: it is recorded in Result.ErrCode
// so error assertions can check it. Run only fails when the scenario itself
// cannot be executed, such as an unusable clock.
func Run(scenario *Scenario) (*Result, error) {
	clock := scenario.ClockMHz
	if clock == 0 {
		clock = defaultClockMHz
	}
	hw, err := sequence.NewHardware(clock, sequence.DefaultLines)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	// Rounding notices are expected in scenarios.
	hw.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	result := NewResult()
	instrs, total, channels, err := compileScenario(hw, scenario)
	if err != nil {
		result.ErrCode = ir.ErrorCode(err)
		if result.ErrCode == "" {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	} else {
		result.Instructions = instrs
		result.TotalNS = total
		tl := timeline.Reconstruct(instrs, channels)
		result.Timeline = &tl
	}

	for i, a := range scenario.Assertions {
		if err := evaluate(result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

func compileScenario(hw sequence.Hardware, s *Scenario) ([]ir.Instruction, int64, ir.ChannelMap, error) {
	if s.Sequence != nil {
		p, err := compiler.CompileSequence(hw, s.Sequence.Name, s.Sequence.Args...)
		if err != nil {
			return nil, 0, nil, err
		}
		channels := hw.Lines.Map()
		channels["flag"] = sequence.FlagMask
		return p.Instructions, p.TotalNS, channels, nil
	}

	res, err := compiler.CompileChannels(s.Channels)
	if err != nil {
		return nil, 0, nil, err
	}
	channels := make(ir.ChannelMap, len(s.Channels))
	for _, ch := range s.Channels {
		channels[ch.Name] = ch.Mask
	}
	return res.Instructions, res.Table.Total(), channels, nil
}
