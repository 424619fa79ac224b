package config

import (
	"math"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// frequencyStepHz is the signal source's frequency resolution.
const frequencyStepHz = 1e-6

// mwLeadNS is the settling delay between readout and the first π pulse in
// the T1 sequence.
const mwLeadNS = 1000

// ScanPoints returns the swept values, endpoints included.
//
// A step that is valid but off the hardware grid is rounded and the scan
// end moved to match, with a warning. For the echo family the whole scan
// is shifted, with a warning, when needed so that π pulse edges land on
// the grid.
func (e Experiment) ScanPoints(hw sequence.Hardware) ([]float64, error) {
	n := e.Scan.Points
	if n < 2 {
		return nil, ir.NewConfigError(ir.ErrCodeCount, "scan.points", "need at least 2 points, got %d", n)
	}
	start, end := e.Scan.Start, e.Scan.End
	step := (end - start) / float64(n-1)
	log := hw.Log()

	if e.Sequence == "ESRseq" {
		if r := math.Round(step/frequencyStepHz) * frequencyStepHz; math.Abs(r-step) > frequencyStepHz/1e3 {
			end = start + float64(n-1)*r
			log.Warn("rounded frequency step to source resolution",
				"requested_hz", step, "adjusted_hz", r, "end_hz", end)
		}
		return linspace(start, end, n), nil
	}

	k := e.stepQuanta()
	if k > 0 {
		if step < float64(k)*hw.Q() {
			return nil, ir.NewConfigError(ir.ErrCodeRange, "scan",
				"step %gns is shorter than %dns", step, k*hw.QuantumNS)
		}
		if !hw.Aligned(step, k) {
			r := float64(hw.RoundTo(step, k))
			end = start + float64(n-1)*r
			log.Warn("rounded scan step to hardware resolution",
				"requested_ns", step, "adjusted_ns", r, "end_ns", end)
		}
	}

	if err := e.checkScanStart(hw, start); err != nil {
		return nil, err
	}

	points := linspace(start, end, n)
	shift, err := e.edgeShift(hw, start)
	if err != nil {
		return nil, err
	}
	if shift != 0 {
		log.Warn("shifted scan so pulse edges fall on the clock grid",
			"shift_ns", shift, "start_ns", start+shift)
		for i := range points {
			points[i] += shift
		}
	}
	return points, nil
}

// stepQuanta is the grid the scan step must sit on, in quanta, or 0 when
// the sequence places no constraint on it.
func (e Experiment) stepQuanta() int64 {
	switch e.Sequence {
	case "RabiSeq", "T1seq":
		return 1
	case "T2seq":
		if e.piPulses() > 1 {
			return 2
		}
		return 1
	case "XY8seq":
		return 2
	}
	return 0
}

// checkScanStart rejects a first scan value no generator could place.
func (e Experiment) checkScanStart(hw sequence.Hardware, start float64) error {
	split := e.Sequence == "XY8seq" || (e.Sequence == "T2seq" && e.piPulses() > 1)

	switch {
	case e.Sequence == "RabiSeq" || e.Sequence == "correlSpecSeq" || (e.Sequence == "T2seq" && !split):
		if start < 0 {
			return ir.NewConfigError(ir.ErrCodeRange, "scan.start", "must be >= 0, got %g", start)
		}
		if !hw.Aligned(start, 1) {
			return ir.NewConfigError(ir.ErrCodeMisaligned, "scan.start", "%gns is not a multiple of %dns", start, hw.QuantumNS)
		}
	case split:
		if !hw.Aligned(start, 2) {
			return ir.NewConfigError(ir.ErrCodeMisaligned, "scan.start", "%gns is not a multiple of %dns", start, 2*hw.QuantumNS)
		}
	case e.Sequence == "T1seq":
		rd, err := e.param("t_readout_delay")
		if err != nil {
			return err
		}
		if min := rd + float64(hw.Round(mwLeadNS)); start < min {
			return ir.NewConfigError(ir.ErrCodeTooShort, "scan.start", "%gns is shorter than %gns", start, min)
		}
		if !hw.Aligned(start, 1) {
			return ir.NewConfigError(ir.ErrCodeMisaligned, "scan.start", "%gns is not a multiple of %dns", start, hw.QuantumNS)
		}
	}

	if e.Sequence == "T2seq" || e.Sequence == "XY8seq" {
		if floor := 15 * hw.Q(); start < floor {
			return ir.NewConfigError(ir.ErrCodeTooShort, "scan.start", "%gns is shorter than %gns", start, floor)
		}
	}
	return nil
}

// edgeShift returns how far the scan must move so the first π pulse
// edge, a quarter π width before the pulse centre, lands on the grid. For
// trains whose outer delay is split in half the shift is doubled.
func (e Experiment) edgeShift(hw sequence.Hardware, start float64) (float64, error) {
	var scale float64
	switch {
	case e.Sequence == "T2seq" && e.piPulses() == 1:
		scale = 1
	case e.Sequence == "T2seq" || e.Sequence == "XY8seq":
		scale = 2
	default:
		return 0, nil
	}
	tPi, err := e.param("t_pi")
	if err != nil {
		return 0, err
	}
	return gridShift(hw, start, tPi, scale), nil
}

// gridShift is the smallest non-negative change to a centre-to-centre delay
// that puts start/scale - tPi/4 on the quantum grid.
func gridShift(hw sequence.Hardware, delay, tPi, scale float64) float64 {
	tPi = float64(hw.RoundTo(tPi, 2))
	edge := delay/scale - tPi/4
	if hw.Aligned(edge, 1) {
		return 0
	}
	r := math.Mod(edge, hw.Q())
	if r < 0 {
		r += hw.Q()
	}
	return (hw.Q() - r) * scale
}

// SequenceArgs returns the positional generator arguments for one scan
// value. ESR experiments scan the source frequency, so their arguments are
// all fixed parameters.
func (e Experiment) SequenceArgs(hw sequence.Hardware, point float64) ([]float64, error) {
	g, err := sequence.Lookup(e.Sequence)
	if err != nil {
		return nil, err
	}
	fixed := g.Params
	args := make([]float64, 0, len(g.Params))
	if e.Sequence != "ESRseq" {
		args = append(args, point)
		fixed = fixed[1:]
	}
	for _, name := range fixed {
		v, err := e.param(name)
		if err != nil {
			return nil, err
		}
		if name == "tau0" {
			v = e.shiftTau0(hw, v)
		}
		args = append(args, v)
	}
	return args, nil
}

// shiftTau0 applies the edge correction to the fixed XY8 spacing of a
// correlation experiment.
func (e Experiment) shiftTau0(hw sequence.Hardware, tau0 float64) float64 {
	if d := gridShift(hw, tau0, e.Params["t_pi"], 2); d != 0 {
		hw.Log().Debug("shifted tau0 so pulse edges fall on the clock grid", "tau0", tau0, "shift_ns", d)
		return tau0 + d
	}
	return tau0
}

// FrequencyHz returns the source frequency for a scan value.
func (e Experiment) FrequencyHz(point float64) float64 {
	if e.Sequence == "ESRseq" {
		return point
	}
	return e.Microwave.FrequencyHz
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}
