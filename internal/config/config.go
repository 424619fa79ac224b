// Package config loads experiment descriptions and turns them into the
// immutable values the compiler runs on: the hardware description, the scan
// points and the positional generator arguments for each point.
//
// Experiment files are CUE. They are unified with the embedded #Experiment
// schema, which supplies defaults for the hardware wiring and the
// microwave source and rejects unknown fields.
package config

import (
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// Experiment is a decoded experiment file.
type Experiment struct {
	Hardware  HardwareConfig     `json:"hardware"`
	Sequence  string             `json:"sequence"`
	Scan      Scan               `json:"scan"`
	Params    map[string]float64 `json:"params"`
	Microwave Microwave          `json:"microwave"`
}

// HardwareConfig describes the pulse generator.
type HardwareConfig struct {
	ClockMHz float64     `json:"clock_mhz"`
	Channels ChannelBits `json:"channels"`
}

// ChannelBits holds the output bit number of each logical line.
type ChannelBits struct {
	AOM   int `json:"aom"`
	MW    int `json:"mw"`
	DAQ   int `json:"daq"`
	Start int `json:"start"`
	I     int `json:"i"`
	Q     int `json:"q"`
}

// Scan is the swept parameter range, endpoints included.
type Scan struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Points int     `json:"points"`
}

// Microwave holds the signal-source settings.
type Microwave struct {
	FrequencyHz float64 `json:"frequency_hz"`
	PowerDBm    float64 `json:"power_dbm"`
}

// Lines converts bit numbers to masks. Two logical lines on one bit are a
// hardware error.
func (c ChannelBits) Lines() (sequence.Lines, error) {
	bits := []struct {
		name string
		bit  int
	}{
		{"aom", c.AOM}, {"mw", c.MW}, {"daq", c.DAQ},
		{"start", c.Start}, {"i", c.I}, {"q", c.Q},
	}
	seen := make(map[int]string, len(bits))
	for _, b := range bits {
		if b.bit < 0 || b.bit > 20 {
			return sequence.Lines{}, ir.NewConfigError(ir.ErrCodeHardware, "channels."+b.name,
				"bit %d is outside 0..20", b.bit)
		}
		if other, dup := seen[b.bit]; dup {
			return sequence.Lines{}, ir.NewConfigError(ir.ErrCodeHardware, "channels."+b.name,
				"bit %d is already assigned to %s", b.bit, other)
		}
		seen[b.bit] = b.name
	}
	return sequence.Lines{
		AOM:   1 << c.AOM,
		MW:    1 << c.MW,
		DAQ:   1 << c.DAQ,
		Start: 1 << c.Start,
		I:     1 << c.I,
		Q:     1 << c.Q,
	}, nil
}

// HardwareSpec builds the hardware description the generators run on.
func (e Experiment) HardwareSpec() (sequence.Hardware, error) {
	lines, err := e.Hardware.Channels.Lines()
	if err != nil {
		return sequence.Hardware{}, err
	}
	return sequence.NewHardware(e.Hardware.ClockMHz, lines)
}

// param returns a fixed parameter, or a ConfigError naming it.
func (e Experiment) param(name string) (float64, error) {
	v, ok := e.Params[name]
	if !ok {
		return 0, ir.NewConfigError(ir.ErrCodeArity, "params."+name, "missing parameter for %s", e.Sequence)
	}
	return v, nil
}

// piPulses reports the number of π pulses of a T2 experiment, 1 otherwise.
func (e Experiment) piPulses() float64 {
	if n, ok := e.Params["n_pi"]; ok && e.Sequence == "T2seq" {
		return n
	}
	return 1
}
