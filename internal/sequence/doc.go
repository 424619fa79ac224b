// Package sequence builds the channel descriptions for each supported
// pulse-sequence family.
//
// A generator maps an experiment's numeric parameters (nanoseconds) to one
// repetition of a signal half followed by a mirrored background half. All
// edges are quantized to the pulse generator's time quantum before they are
// placed on a channel, so every start and duration it returns is an exact
// multiple of Hardware.QuantumNS.
//
// Generators are looked up by name:
//
//	channels, err := sequence.Generate(hw, "T2seq", tau, tAOM, tReadoutDelay, tPi, padding, 1)
//
// Dynamical-decoupling families (T2seq, XY8seq, correlSpecSeq) share one
// parameterized pulse-train builder, Train, that differs only in the
// number of π pulses, their spacing, and which of them carry the Y phase.
//
// Sub-quantum microwave pulses are supported by RabiSeq only. Other
// generators reject pulse widths below their minimum instead.
package sequence
