package compiler

import (
	"cmp"
	"slices"
	"sort"

	"github.com/roach88/pulseseq/internal/ir"
)

// EdgeCatalog maps an absolute time in nanoseconds to the mask that is
// XOR-ed into the output state at that time.
type EdgeCatalog map[int64]uint32

// Catalog builds the edge catalog for a set of channels. Pulses may be given
// in any order; the XOR fold is commutative.
//
// Returns an InvariantError for a channel with no mask, a negative edge, or
// two pulses on the same channel that overlap. Touching pulses (one starts
// where the previous ends) are allowed and merge into one long pulse.
func Catalog(channels []ir.Channel) (EdgeCatalog, error) {
	cat := EdgeCatalog{}
	for _, ch := range channels {
		if err := checkChannel(ch); err != nil {
			return nil, err
		}
		for _, p := range ch.Pulses {
			cat[p.Start] ^= ch.Mask
			cat[p.End()] ^= ch.Mask
		}
	}
	return cat, nil
}

// checkChannel verifies the per-channel invariants required by toggle
// semantics.
func checkChannel(ch ir.Channel) error {
	if ch.Mask == 0 {
		return ir.NewInvariantError(ir.ErrCodeZeroMask, ch.Name, "channel has no output bits")
	}

	pulses := make([]ir.Pulse, 0, len(ch.Pulses))
	for _, p := range ch.Pulses {
		if p.Start < 0 {
			return ir.NewInvariantError(ir.ErrCodeNegativeTime, ch.Name, "pulse starts at %dns", p.Start)
		}
		if p.Duration < 0 {
			return ir.NewInvariantError(ir.ErrCodeNegativeTime, ch.Name, "pulse at %dns has negative duration %dns", p.Start, p.Duration)
		}
		if p.Duration > 0 {
			pulses = append(pulses, p)
		}
	}

	slices.SortFunc(pulses, func(a, b ir.Pulse) int { return cmp.Compare(a.Start, b.Start) })
	for i := 1; i < len(pulses); i++ {
		if pulses[i].Start < pulses[i-1].End() {
			return ir.NewInvariantError(ir.ErrCodeOverlap, ch.Name,
				"pulse at %dns overlaps pulse [%d, %d)ns", pulses[i].Start, pulses[i-1].Start, pulses[i-1].End())
		}
	}
	return nil
}

// Times returns the catalog keys in ascending order.
func (c EdgeCatalog) Times() []int64 {
	times := make([]int64, 0, len(c))
	for t := range c {
		times = append(times, t)
	}
	slices.Sort(times)
	return times
}

// Table is the cumulative bitmask table: States[i] is the absolute output
// state from Times[i] until Times[i+1]. The final entry marks the end of the
// sequence.
type Table struct {
	Times  []int64  `json:"times_ns"`
	States []uint32 `json:"states"`
}

// Cumulative computes the absolute output state at each catalog time.
//
// Time 0 is always present, with state 0 when nothing rises at the origin.
// Interior entries whose delta is zero change nothing and are dropped, so no redundant instruction is emitted for them.
// The final entry is always kept because it fixes the sequence length.
func (c EdgeCatalog) Cumulative() Table {
	times := c.Times()
	if len(times) == 0 || times[0] != 0 {
		times = append([]int64{0}, times...)
	}
	tbl := Table{
		Times:  make([]int64, 0, len(times)),
		States: make([]uint32, 0, len(times)),
	}

	var state uint32
	for i, t := range times {
		delta := c[t]
		last := i == len(times)-1
		if delta == 0 && t != 0 && !last {
			continue
		}
		state ^= delta
		tbl.Times = append(tbl.Times, t)
		tbl.States = append(tbl.States, state)
	}
	return tbl
}

// Len returns the number of entries in the table.
func (t Table) Len() int {
	return len(t.Times)
}

// Total returns the sequence length, the time of the final entry.
func (t Table) Total() int64 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// StateAt returns the output state active at time ns. Times at or past the
// final entry report the final entry's state.
func (t Table) StateAt(ns int64) uint32 {
	i := sort.Search(len(t.Times), func(i int) bool { return t.Times[i] > ns })
	if i == 0 {
		return 0
	}
	return t.States[i-1]
}
