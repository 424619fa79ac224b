package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// ReadoutSweepSeq builds the readout-delay calibration: one laser pulse and
// one digitizer gate placed tReadoutDelay after the laser turns on. The
// start trigger is held long, covering the rest of the repetition.
func ReadoutSweepSeq(h Hardware, tReadoutDelay, tAOM float64) ([]ir.Channel, error) {
	if tReadoutDelay < 0 {
		return nil, ir.NewConfigError(ir.ErrCodeRange, "t_readout_delay", "must be >= 0, got %gns", tReadoutDelay)
	}
	if err := h.atLeastPulse("t_aom", tAOM); err != nil {
		return nil, err
	}
	trig := float64(h.Round(startTriggerNS))
	lead := float64(h.Round(readoutLeadNS))
	start := lead - trig
	return []ir.Channel{
		h.channel("aom", h.Lines.AOM, span{start, tAOM}),
		h.channel("daq", h.Lines.DAQ, span{start + tReadoutDelay, float64(h.Round(readoutNS))}),
		h.channel("start", h.Lines.Start, span{start + tAOM, 2*lead + trig}),
	}, nil
}
