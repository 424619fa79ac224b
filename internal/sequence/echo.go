package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// T2Seq builds the Hahn-echo (nPi == 1) or CPMG-n coherence sweep.
func T2Seq(h Hardware, tau, tAOM, tReadoutDelay, tPi, padding, nPi float64) ([]ir.Channel, error) {
	n, err := count("n_pi", nPi)
	if err != nil {
		return nil, err
	}
	p, err := h.echoParams(tAOM, tReadoutDelay, tPi, padding)
	if err != nil {
		return nil, err
	}
	if err := h.checkTau("tau", tau, p.tPi, p.pad, n > 1); err != nil {
		return nil, err
	}
	lead := float64(h.Round(mwToAOMNS)) + p.tReadoutDelay
	return h.echo(CPMG(lead, tau, p.tPi, p.pad, n), p)
}

// XY8Seq builds the XY8-N dynamical-decoupling sweep.
func XY8Seq(h Hardware, tau, tAOM, tReadoutDelay, tPi, padding, nRepeats float64) ([]ir.Channel, error) {
	n, err := count("n_repeats", nRepeats)
	if err != nil {
		return nil, err
	}
	p, err := h.echoParams(tAOM, tReadoutDelay, tPi, padding)
	if err != nil {
		return nil, err
	}
	if err := h.checkTau("tau", tau, p.tPi, p.pad, true); err != nil {
		return nil, err
	}
	lead := float64(h.Round(mwToAOMNS)) + p.tReadoutDelay
	return h.echo(XY8(lead, tau, p.tPi, p.pad, n), p)
}

// echo lays out a single-train sequence. The background half repeats the
// train with Q dropped on the closing π/2, which flips its phase and gives
// the reference projection. I is driven in the signal half only.
func (h Hardware) echo(train Train, p echoParams) ([]ir.Channel, error) {
	sig, err := train.Build()
	if err != nil {
		return nil, err
	}
	aomStart := sig.End() + float64(h.Round(mwToAOMNS))
	half := aomStart + p.tAOM
	bg := sig.shift(half)

	aom, daq := h.readoutPair(aomStart, p.tAOM, p.tReadoutDelay, half)
	return []ir.Channel{
		aom,
		daq,
		h.channel("mw", h.Lines.MW, concat(sig.MW, bg.MW)...),
		h.channel("i", h.Lines.I, sig.I...),
		h.channel("q", h.Lines.Q, concat(sig.Q, dropLast(bg.Q))...),
		h.startTrigger(),
	}, nil
}
