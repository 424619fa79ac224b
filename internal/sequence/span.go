package sequence

import (
	"math"

	"github.com/roach88/pulseseq/internal/ir"
)

// span is an unquantized pulse, used while a generator does its arithmetic.
type span struct {
	start, dur float64
}

func (s span) end() float64 {
	return s.start + s.dur
}

// shift returns a copy of spans moved later by dt.
func shift(spans []span, dt float64) []span {
	out := make([]span, len(spans))
	for i, s := range spans {
		out[i] = span{start: s.start + dt, dur: s.dur}
	}
	return out
}

// concat joins span lists into a fresh slice.
func concat(lists ...[]span) []span {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]span, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// dropLast returns spans without its final element.
func dropLast(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	return spans[:len(spans)-1]
}

// channel quantizes spans onto a channel. Adjustments of more than a
// rounding error are logged at debug level.
func (h Hardware) channel(name string, mask uint32, spans ...span) ir.Channel {
	ch := ir.Channel{Name: name, Mask: mask, Pulses: make([]ir.Pulse, len(spans))}
	for i, s := range spans {
		p := ir.Pulse{Start: h.Round(s.start), Duration: h.Round(s.dur)}
		if math.Abs(float64(p.Start)-s.start) > 1e-9 || math.Abs(float64(p.Duration)-s.dur) > 1e-9 {
			h.Log().Debug("quantized pulse",
				"channel", name,
				"start", s.start, "duration", s.dur,
				"quantized_start", p.Start, "quantized_duration", p.Duration)
		}
		ch.Pulses[i] = p
	}
	return ch
}

// startTrigger is the digitizer start pulse shared by every sequence.
func (h Hardware) startTrigger() ir.Channel {
	return h.channel("start", h.Lines.Start, span{0, float64(h.Round(startTriggerNS))})
}

// readoutPair places the laser pulses and digitizer gates that end the
// signal half (at aomStart) and the background half (one half later).
func (h Hardware) readoutPair(aomStart, tAOM, tReadoutDelay, half float64) (aom, daq ir.Channel) {
	gate := float64(h.Round(readoutNS))
	aom = h.channel("aom", h.Lines.AOM,
		span{aomStart, tAOM},
		span{half + aomStart, tAOM})
	daq = h.channel("daq", h.Lines.DAQ,
		span{aomStart + tReadoutDelay, gate},
		span{half + aomStart + tReadoutDelay, gate})
	return aom, daq
}
