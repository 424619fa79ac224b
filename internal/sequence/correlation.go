package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// CorrelSpecSeq builds correlation spectroscopy: two XY8-N blocks separated
// by the swept correlation time. The second block of the background half
// closes with I driven, giving the reference phase.
func CorrelSpecSeq(h Hardware, tCorr, tau0, tAOM, tReadoutDelay, tPi, padding, nRepeats float64) ([]ir.Channel, error) {
	if tCorr < 0 {
		return nil, ir.NewConfigError(ir.ErrCodeRange, "t_corr", "must be >= 0, got %gns", tCorr)
	}
	n, err := count("n_repeats", nRepeats)
	if err != nil {
		return nil, err
	}
	p, err := h.echoParams(tAOM, tReadoutDelay, tPi, padding)
	if err != nil {
		return nil, err
	}
	if err := h.checkTau("tau0", tau0, p.tPi, p.pad, true); err != nil {
		return nil, err
	}

	lead := float64(h.Round(correlLeadNS))
	a, err := XY8(lead, tau0, p.tPi, p.pad, n).Build()
	if err != nil {
		return nil, err
	}
	// The second block is offset from the first block's absolute end, so
	// the lead-in is counted twice.
	offset := a.End() + tCorr
	b := a.shift(offset)

	aomStart := b.End() + float64(h.Round(mwToAOMNS))
	half := aomStart + p.tAOM

	mw := concat(a.MW, b.MW)
	aom, daq := h.readoutPair(aomStart, p.tAOM, p.tReadoutDelay, half)
	return []ir.Channel{
		aom,
		daq,
		h.channel("mw", h.Lines.MW, concat(mw, shift(mw, half))...),
		h.channel("i", h.Lines.I, shift(a.I, half+offset)...),
		h.channel("q", h.Lines.Q, concat(a.Q, b.Q, shift(concat(a.Q, dropLast(b.Q)), half))...),
		h.startTrigger(),
	}, nil
}
