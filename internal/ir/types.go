package ir

import (
	"fmt"
	"strings"
)

// Pulse is one (start, duration) interval on a channel, in nanoseconds.
type Pulse struct {
	Start    int64 `json:"start_ns" yaml:"start"`
	Duration int64 `json:"duration_ns" yaml:"duration"`
}

// End returns the falling-edge time of the pulse.
func (p Pulse) End() int64 {
	return p.Start + p.Duration
}

// Channel is one hardware output line and the pulses driven on it.
//
// Mask is normally a single power-of-two bit. The short-pulse flag channel
// carries a multi-bit pattern that is merged into the compiled mask the same
// way.
type Channel struct {
	Name   string  `json:"name" yaml:"name"`
	Mask   uint32  `json:"mask" yaml:"mask"`
	Pulses []Pulse `json:"pulses" yaml:"pulses"`
}

// Opcode is the flow-control field of a pulse-generator instruction.
type Opcode int

const (
	// Continue proceeds to the next instruction when the duration elapses.
	Continue Opcode = iota
	// Branch jumps to the instruction at Target when the duration elapses.
	Branch
)

// String returns the hardware mnemonic for the opcode.
func (o Opcode) String() string {
	switch o {
	case Continue:
		return "CONTINUE"
	case Branch:
		return "BRANCH"
	default:
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Opcode) MarshalText() ([]byte, error) {
	switch o {
	case Continue, Branch:
		return []byte(o.String()), nil
	default:
		return nil, fmt.Errorf("unknown opcode %d", int(o))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Opcode) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "CONTINUE":
		*o = Continue
	case "BRANCH":
		*o = Branch
	default:
		return fmt.Errorf("unknown opcode %q", string(text))
	}
	return nil
}

// Instruction is one hardware program step: hold Mask for Duration
// nanoseconds, then continue or branch to Target.
type Instruction struct {
	Mask     uint32  `json:"mask" yaml:"mask"`
	Op       Opcode  `json:"op" yaml:"op"`
	Target   int     `json:"target" yaml:"target"`
	Duration float64 `json:"duration_ns" yaml:"duration"`
}

// String formats the instruction the way driver logs print it.
func (in Instruction) String() string {
	return fmt.Sprintf("0x%06X %-8s %3d %gns", in.Mask, in.Op, in.Target, in.Duration)
}

// Program is a compiled, loop-closed instruction table together with the
// parameters that produced it.
type Program struct {
	Sequence     string        `json:"sequence"`
	Args         []float64     `json:"args"`
	QuantumNS    int64         `json:"quantum_ns"`
	TotalNS      int64         `json:"total_ns"`
	Instructions []Instruction `json:"instructions"`
}

// ChannelMap names the output lines of interest, name -> bit mask.
type ChannelMap map[string]uint32
