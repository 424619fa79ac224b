package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// RabiSeq builds the microwave pulse-length sweep. Each half is a dark
// interval holding one microwave pulse, followed by a laser readout; the
// background half has no microwave pulse.
//
// A pulse shorter than five quanta cannot be timed by the instruction
// duration alone. It is emitted as a five-quantum placeholder on the
// microwave line together with a "flag" channel carrying the short-pulse
// pattern for the requested width. No other generator does this.
func RabiSeq(h Hardware, tMW, tAOM, tReadoutDelay float64) ([]ir.Channel, error) {
	if tMW < 0 {
		return nil, ir.NewConfigError(ir.ErrCodeRange, "t_mw", "must be >= 0, got %gns", tMW)
	}
	if err := h.atLeastPulse("t_aom", tAOM); err != nil {
		return nil, err
	}
	if err := h.atLeastPulse("t_readout_delay", tReadoutDelay); err != nil {
		return nil, err
	}

	lead := float64(h.Round(mwToAOMNS)) + tReadoutDelay
	half := lead + tMW + float64(h.Round(mwToAOMNS)) + tAOM

	var channels []ir.Channel
	if placeholder := minPulseQuanta * h.Q(); tMW > 0 && tMW < placeholder {
		flag := ShortPulseFlag(tMW, h.QuantumNS)
		h.Log().Debug("short microwave pulse",
			"t_mw", tMW, "placeholder_ns", placeholder, "flag", flag)
		channels = append(channels,
			h.channel("flag", flag, span{lead, placeholder}),
			h.channel("mw", h.Lines.MW, span{lead, placeholder}))
	} else {
		channels = append(channels, h.channel("mw", h.Lines.MW, span{lead, tMW}))
	}

	aom, daq := h.readoutPair(half-tAOM, tAOM, tReadoutDelay, half)
	return append(channels, aom, daq, h.startTrigger()), nil
}
