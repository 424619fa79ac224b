package sequence

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// Phase reports whether π pulse i (0-based) of a train is driven with the Y
// phase, which is selected by holding the Q modulation line high.
type Phase func(i int) bool

// CPMGPhase drives every π pulse about Y.
func CPMGPhase(int) bool { return true }

// XY8Phase follows the XYXYYXYX pattern: pulses 1, 3, 4 and 6 of each block
// of eight are Y pulses.
func XY8Phase(i int) bool {
	switch i % 8 {
	case 1, 3, 4, 6:
		return true
	}
	return false
}

// Train describes a dynamical-decoupling pulse train: an initial π/2
// pulse, Count π pulses, and a closing π/2 pulse. Spacings are measured
// between pulse centres.
type Train struct {
	Start   float64 // rising edge of the initial π/2 pulse
	Tau     float64 // spacing between consecutive π pulses
	Gap     float64 // spacing between each π/2 pulse and its neighbouring π pulse
	PiNS    float64 // π pulse width
	Count   int     // number of π pulses
	Padding float64 // guard interval added on both sides of I/Q windows
	Phase   Phase
}

// TrainPulses holds the unquantized pulses of a built train.
type TrainPulses struct {
	MW []span // microwave switch, every pulse of the train
	I  []span // I line, final π/2 only
	Q  []span // Q line, Y-phase π pulses and the final π/2
}

// End returns the falling edge of the closing π/2 pulse.
func (tp TrainPulses) End() float64 {
	return tp.MW[len(tp.MW)-1].end()
}

// shift returns the whole train moved later by dt.
func (tp TrainPulses) shift(dt float64) TrainPulses {
	return TrainPulses{MW: shift(tp.MW, dt), I: shift(tp.I, dt), Q: shift(tp.Q, dt)}
}

// CPMG returns the train used by the Hahn-echo family. With a single π
// pulse the scanned delay separates each π/2 from the π pulse; with more,
// it separates the π pulses and the π/2 pulses sit half a delay outside.
func CPMG(start, tau, piNS, padding float64, count int) Train {
	gap := tau
	if count > 1 {
		gap = tau / 2
	}
	return Train{Start: start, Tau: tau, Gap: gap, PiNS: piNS, Count: count, Padding: padding, Phase: CPMGPhase}
}

// XY8 returns an XY8-N train of 8·repeats π pulses.
func XY8(start, tau, piNS, padding float64, repeats int) Train {
	return Train{Start: start, Tau: tau, Gap: tau / 2, PiNS: piNS, Count: 8 * repeats, Padding: padding, Phase: XY8Phase}
}

// Build lays out the train.
//
// Returns a ConfigError if the pulse count is not positive or padding
// moves an I/Q edge before time zero.
func (t Train) Build() (TrainPulses, error) {
	if t.Count < 1 {
		return TrainPulses{}, ir.NewConfigError(ir.ErrCodeCount, "count", "pulse train needs at least one π pulse, got %d", t.Count)
	}
	halfPi := t.PiNS / 2
	quarterPi := t.PiNS / 4

	tp := TrainPulses{
		MW: make([]span, 0, t.Count+2),
		Q:  make([]span, 0, t.Count+1),
	}
	tp.MW = append(tp.MW, span{t.Start, halfPi})

	edge := t.Start + t.Gap - quarterPi
	for i := 0; i < t.Count; i++ {
		if i > 0 {
			edge += t.Tau
		}
		pi := span{edge, t.PiNS}
		tp.MW = append(tp.MW, pi)
		if t.Phase != nil && t.Phase(i) {
			tp.Q = append(tp.Q, pi)
		}
	}

	final := span{edge + t.Gap + quarterPi, halfPi}
	tp.MW = append(tp.MW, final)
	// The closing π/2 is a -X pulse: both modulation lines are high.
	tp.Q = append(tp.Q, final)
	tp.I = []span{final}

	tp.Q = pad(tp.Q, t.Padding)
	tp.I = pad(tp.I, t.Padding)
	if first := tp.Q[0].start; first < 0 {
		return TrainPulses{}, ir.NewConfigError(ir.ErrCodeRange, "iq_padding",
			"padding %gns moves the first I/Q edge to %gns, before time zero", t.Padding, first)
	}
	return tp, nil
}

// pad widens each span by p on both sides.
func pad(spans []span, p float64) []span {
	out := make([]span, len(spans))
	for i, s := range spans {
		out[i] = span{start: s.start - p, dur: s.dur + 2*p}
	}
	return out
}
