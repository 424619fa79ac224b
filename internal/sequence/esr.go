package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// ESRSeq builds the continuous-wave resonance scan: the laser stays on for
// both halves, microwaves are on for the first half only, and the
// digitizer samples near the end of each half. The microwave frequency is
// stepped by the signal source, not by the pulse program.
func ESRSeq(h Hardware, tDuration float64) ([]ir.Channel, error) {
	buffer := float64(h.Round(esrBufferNS))
	t := h.adjust("t_duration", tDuration, 2)
	if t < buffer {
		return nil, ir.NewConfigError(ir.ErrCodeTooShort, "t_duration",
			"%gns is shorter than the %gns readout buffer", t, buffer)
	}
	gate := float64(h.Round(readoutNS))
	return []ir.Channel{
		h.channel("aom", h.Lines.AOM, span{0, 2 * t}),
		h.channel("daq", h.Lines.DAQ, span{t - buffer, gate}, span{2*t - buffer, gate}),
		h.channel("mw", h.Lines.MW, span{0, t}),
		h.startTrigger(),
	}, nil
}
