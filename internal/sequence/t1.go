package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// T1Seq builds the spin-lattice relaxation sweep. Two laser pulses are
// separated by the dark delay; in the second dark interval a π pulse
// inverts the spin so the halves measure relaxation from opposite states.
func T1Seq(h Hardware, tDelay, tAOM, tReadoutDelay, tPi float64) ([]ir.Channel, error) {
	if err := h.atLeastPulse("t_aom", tAOM); err != nil {
		return nil, err
	}
	if err := h.atLeastPulse("t_readout_delay", tReadoutDelay); err != nil {
		return nil, err
	}
	if tPi < h.Q() {
		return nil, ir.NewConfigError(ir.ErrCodeRange, "t_pi", "%gns is shorter than one quantum (%dns)", tPi, h.QuantumNS)
	}
	if !h.Aligned(tPi, 1) {
		return nil, ir.NewConfigError(ir.ErrCodeMisaligned, "t_pi", "%gns is not a multiple of %dns", tPi, h.QuantumNS)
	}

	settle := float64(h.Round(mwToAOMNS))
	if min := tReadoutDelay + settle + tPi; tDelay < min {
		return nil, ir.NewConfigError(ir.ErrCodeTooShort, "t_delay",
			"%gns leaves no room for the π pulse; must be at least %gns", tDelay, min)
	}

	half := tDelay + tAOM
	aom, daq := h.readoutPair(tDelay, tAOM, tReadoutDelay, half)
	mw := h.channel("mw", h.Lines.MW, span{half + tReadoutDelay + settle, tPi})
	return []ir.Channel{aom, daq, mw, h.startTrigger()}, nil
}
