package sequence

import (
	"log/slog"
	"math"

	"github.com/roach88/pulseseq/internal/ir"
)

// Lines assigns an output bit mask to each logical signal.
type Lines struct {
	AOM   uint32 `json:"aom"`   // laser modulator gate
	MW    uint32 `json:"mw"`    // microwave switch
	DAQ   uint32 `json:"daq"`   // digitizer sample clock
	Start uint32 `json:"start"` // digitizer start trigger
	I     uint32 `json:"i"`     // in-phase modulation control
	Q     uint32 `json:"q"`     // quadrature modulation control
}

// DefaultLines is the wiring used when an experiment does not override it.
var DefaultLines = Lines{
	AOM:   1 << 0,
	MW:    1 << 1,
	DAQ:   1 << 2,
	Start: 1 << 3,
	I:     1 << 4,
	Q:     1 << 5,
}

// Map returns the lines as a name -> mask map, the form the timeline
// reconstructor takes.
func (l Lines) Map() ir.ChannelMap {
	return ir.ChannelMap{
		"aom":   l.AOM,
		"mw":    l.MW,
		"daq":   l.DAQ,
		"start": l.Start,
		"i":     l.I,
		"q":     l.Q,
	}
}

// Hardware is the immutable description of the pulse generator a sequence
// is compiled for. It is passed by value into every generator call.
type Hardware struct {
	// QuantumNS is the generator's time resolution, 1/clock, in whole ns.
	QuantumNS int64
	Lines     Lines

	// Logger receives warn-and-adjust notices. Nil means slog.Default().
	Logger *slog.Logger
}

// NewHardware derives the quantum from a clock frequency in MHz.
// The clock period must be a whole number of nanoseconds.
func NewHardware(clockMHz float64, lines Lines) (Hardware, error) {
	if clockMHz <= 0 || math.IsNaN(clockMHz) || math.IsInf(clockMHz, 0) {
		return Hardware{}, ir.NewConfigError(ir.ErrCodeHardware, "clock_mhz", "clock must be positive, got %v", clockMHz)
	}
	period := 1e3 / clockMHz
	q := math.Round(period)
	if q < 1 || math.Abs(period-q) > 1e-9 {
		return Hardware{}, ir.NewConfigError(ir.ErrCodeHardware, "clock_mhz",
			"clock period %gns is not a whole number of nanoseconds", period)
	}
	return Hardware{QuantumNS: int64(q), Lines: lines}, nil
}

// Log returns the logger for rounding and quantization notices.
func (h Hardware) Log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Q returns the quantum as a float64 for parameter arithmetic.
func (h Hardware) Q() float64 {
	return float64(h.QuantumNS)
}

// Round snaps x to the nearest multiple of the quantum, ties to even.
func (h Hardware) Round(x float64) int64 {
	return h.RoundTo(x, 1)
}

// RoundTo snaps x to the nearest multiple of k quanta, ties to even.
func (h Hardware) RoundTo(x float64, k int64) int64 {
	step := float64(k * h.QuantumNS)
	return int64(math.RoundToEven(x/step) * step)
}

// Aligned reports whether x is a multiple of k quanta.
func (h Hardware) Aligned(x float64, k int64) bool {
	step := float64(k * h.QuantumNS)
	r := math.Abs(math.Mod(x, step))
	return r < 1e-9 || step-r < 1e-9
}

// Fixed protocol intervals, before quantization.
const (
	startTriggerNS = 300  // digitizer start-trigger width
	readoutNS      = 300  // digitizer gate width
	mwToAOMNS      = 1000 // microwave-to-laser settling delay
	esrBufferNS    = 2000 // ESR readout lead before the end of each half
	readoutLeadNS  = 5000 // readout-delay sweep lead-in
	correlLeadNS   = 2000 // correlation spectroscopy lead-in
	minPulseQuanta = 5    // shortest pulse the generator times natively
)
