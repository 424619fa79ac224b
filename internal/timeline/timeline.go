// Package timeline expands a compiled instruction table back into
// per-channel step functions for plotting and verification.
package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/pulseseq/internal/ir"
)

// Waveform is the 0/1 level of one output line, sampled on the shared
// time axis of its Timeline.
type Waveform struct {
	Name   string `json:"name"`
	Mask   uint32 `json:"mask"`
	Levels []int  `json:"levels"`
}

// Timeline is a reconstructed repetition of a program. Every boundary
// between instructions appears twice on the time axis, once with the
// outgoing level and once with the incoming one, so a line plot draws
// vertical edges.
type Timeline struct {
	TimesNS  []float64  `json:"times_ns"`
	Channels []Waveform `json:"channels"`
}

// Reconstruct builds the timeline of instrs for each named channel.
// Channels are ordered by mask, then name. The instruction list is only
// read.
func Reconstruct(instrs []ir.Instruction, channels ir.ChannelMap) Timeline {
	n := len(instrs)
	tl := Timeline{
		TimesNS:  make([]float64, 0, 2+2*n),
		Channels: make([]Waveform, 0, len(channels)),
	}

	tl.TimesNS = append(tl.TimesNS, 0, 0)
	var t float64
	for _, in := range instrs {
		t += in.Duration
		tl.TimesNS = append(tl.TimesNS, t, t)
	}

	for name, mask := range channels {
		tl.Channels = append(tl.Channels, waveform(instrs, name, mask))
	}
	slices.SortFunc(tl.Channels, func(a, b Waveform) int {
		if c := cmp.Compare(a.Mask, b.Mask); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return tl
}

func waveform(instrs []ir.Instruction, name string, mask uint32) Waveform {
	n := len(instrs)
	w := Waveform{Name: name, Mask: mask, Levels: make([]int, 0, 2+2*n)}
	level := func(i int) int {
		if instrs[i].Mask&mask != 0 {
			return 1
		}
		return 0
	}
	if n == 0 {
		w.Levels = append(w.Levels, 0, 0)
		return w
	}

	w.Levels = append(w.Levels, 0, level(0))
	for i := range instrs {
		next := i + 1
		if next == n {
			next = i
		}
		w.Levels = append(w.Levels, level(i), level(next))
	}
	return w
}

// Channel returns the waveform for name.
func (tl Timeline) Channel(name string) (Waveform, bool) {
	i := slices.IndexFunc(tl.Channels, func(w Waveform) bool { return w.Name == name })
	if i < 0 {
		return Waveform{}, false
	}
	return tl.Channels[i], true
}

// TotalNS returns the length of one repetition.
func (tl Timeline) TotalNS() float64 {
	if len(tl.TimesNS) == 0 {
		return 0
	}
	return tl.TimesNS[len(tl.TimesNS)-1]
}

// LevelAt returns the level of the named channel at time ns. At an edge
// the incoming level is reported; past the end the final level holds.
func (tl Timeline) LevelAt(name string, ns float64) (int, error) {
	w, ok := tl.Channel(name)
	if !ok {
		return 0, fmt.Errorf("timeline: no channel %q", name)
	}
	j := sort.Search(len(tl.TimesNS), func(i int) bool { return tl.TimesNS[i] > ns }) - 1
	if j < 0 {
		return 0, nil
	}
	return w.Levels[j], nil
}
