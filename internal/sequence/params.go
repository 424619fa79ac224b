package sequence

import (
	"math"

	"github.com/roach88/pulseseq/internal/ir"
)

// atLeastPulse rejects a laser or readout interval shorter than the
// shortest natively timed pulse, or one that is off the quantum grid.
func (h Hardware) atLeastPulse(field string, v float64) error {
	if v < minPulseQuanta*h.Q() {
		return ir.NewConfigError(ir.ErrCodeRange, field, "%gns is shorter than %d quanta (%gns)", v, minPulseQuanta, minPulseQuanta*h.Q())
	}
	if !h.Aligned(v, 1) {
		return ir.NewConfigError(ir.ErrCodeMisaligned, field, "%gns is not a multiple of %dns", v, h.QuantumNS)
	}
	return nil
}

// padding checks an I/Q guard interval.
func (h Hardware) padding(v float64) error {
	return h.atLeastPulse("iq_padding", v)
}

// piPulse validates the π width used by the phase-cycled trains. The width
// is snapped to two quanta, with a warning, so the π/2 half-pulses land on
// the grid. The π/4 edge offset is not aligned here: the scan grid shift in
// config puts it on the grid.
func (h Hardware) piPulse(v float64) (float64, error) {
	if v < 2*h.Q() {
		return 0, ir.NewConfigError(ir.ErrCodeRange, "t_pi", "%gns is shorter than two quanta (%gns)", v, 2*h.Q())
	}
	return h.adjust("t_pi", v, 2), nil
}

// adjust rounds v to a multiple of k quanta, warning when it moves.
func (h Hardware) adjust(field string, v float64, k int64) float64 {
	if h.Aligned(v, k) {
		return v
	}
	r := float64(h.RoundTo(v, k))
	h.Log().Warn("rounded to hardware resolution",
		"field", field,
		"requested_ns", v,
		"adjusted_ns", r,
		"multiple_ns", k*h.QuantumNS)
	return r
}

// count converts a positional repeat count, rejecting values below one and
// fractional values.
func count(field string, v float64) (int, error) {
	if v < 1 || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, ir.NewConfigError(ir.ErrCodeCount, field, "must be an integer >= 1, got %v", v)
	}
	return int(v), nil
}

// finite rejects NaN and infinite arguments before any arithmetic.
func finite(names []string, args []float64) error {
	for i, v := range args {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ir.NewConfigError(ir.ErrCodeRange, names[i], "must be finite, got %v", v)
		}
	}
	return nil
}

// echoSpacing is the shortest delay between π pulse centres that leaves
// room for the padded I/Q windows of two neighbouring pulses.
func (h Hardware) echoSpacing(tPi, pad float64) float64 {
	return 2*pad + 0.75*tPi + minPulseQuanta*h.Q()
}

// checkTau enforces the minimum free-precession delay for a train whose
// delay is split around its outer π/2 pulses (split) or not.
func (h Hardware) checkTau(field string, tau, tPi, pad float64, split bool) error {
	floor := 3 * minPulseQuanta * h.Q()
	if tau < floor {
		return ir.NewConfigError(ir.ErrCodeTooShort, field, "%gns is shorter than %gns", tau, floor)
	}
	min := h.echoSpacing(tPi, pad)
	if split {
		min *= 2
	}
	if tau < min {
		return ir.NewConfigError(ir.ErrCodeTooShort, field,
			"%gns is too short for t_pi=%gns and iq_padding=%gns; must be at least %gns", tau, tPi, pad, min)
	}
	return nil
}

// echoParams is the validated parameter set shared by the phase-cycled
// sequences.
type echoParams struct {
	tAOM, tReadoutDelay, tPi, pad float64
}

func (h Hardware) echoParams(tAOM, tReadoutDelay, tPi, pad float64) (echoParams, error) {
	if err := h.atLeastPulse("t_aom", tAOM); err != nil {
		return echoParams{}, err
	}
	if err := h.atLeastPulse("t_readout_delay", tReadoutDelay); err != nil {
		return echoParams{}, err
	}
	if err := h.padding(pad); err != nil {
		return echoParams{}, err
	}
	pi, err := h.piPulse(tPi)
	if err != nil {
		return echoParams{}, err
	}
	return echoParams{tAOM: tAOM, tReadoutDelay: tReadoutDelay, tPi: pi, pad: pad}, nil
}
