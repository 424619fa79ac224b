package sequence

import (
	"slices"
	"strings"

	"github.com/roach88/pulseseq/internal/ir"
)

// Modulation is the signal-source modulation mode a sequence needs.
type Modulation string

const (
	ModulationOff Modulation = "off"
	ModulationIQ  Modulation = "iq"
)

// Generator describes one registered sequence family.
type Generator struct {
	// Name is the identifier experiments select the sequence by.
	Name string
	// Params names the positional arguments, scanned value first.
	Params []string
	// Modulation is the mode the signal source must be set to.
	Modulation Modulation

	build func(h Hardware, args []float64) ([]ir.Channel, error)
}

// Build validates the argument count and runs the generator.
func (g Generator) Build(h Hardware, args ...float64) ([]ir.Channel, error) {
	if len(args) != len(g.Params) {
		return nil, ir.NewConfigError(ir.ErrCodeArity, g.Name,
			"takes %d arguments (%s), got %d", len(g.Params), strings.Join(g.Params, ", "), len(args))
	}
	if err := finite(g.Params, args); err != nil {
		return nil, err
	}
	return g.build(h, args)
}

var generators = []Generator{
	{
		Name:       "ESRseq",
		Params:     []string{"t_duration"},
		Modulation: ModulationOff,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return ESRSeq(h, a[0])
		},
	},
	{
		Name:       "RabiSeq",
		Params:     []string{"t_mw", "t_aom", "t_readout_delay"},
		Modulation: ModulationOff,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return RabiSeq(h, a[0], a[1], a[2])
		},
	},
	{
		Name:       "T1seq",
		Params:     []string{"t_delay", "t_aom", "t_readout_delay", "t_pi"},
		Modulation: ModulationOff,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return T1Seq(h, a[0], a[1], a[2], a[3])
		},
	},
	{
		Name:       "T2seq",
		Params:     []string{"tau", "t_aom", "t_readout_delay", "t_pi", "iq_padding", "n_pi"},
		Modulation: ModulationIQ,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return T2Seq(h, a[0], a[1], a[2], a[3], a[4], a[5])
		},
	},
	{
		Name:       "XY8seq",
		Params:     []string{"tau", "t_aom", "t_readout_delay", "t_pi", "iq_padding", "n_repeats"},
		Modulation: ModulationIQ,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return XY8Seq(h, a[0], a[1], a[2], a[3], a[4], a[5])
		},
	},
	{
		Name:       "correlSpecSeq",
		Params:     []string{"t_corr", "tau0", "t_aom", "t_readout_delay", "t_pi", "iq_padding", "n_repeats"},
		Modulation: ModulationIQ,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return CorrelSpecSeq(h, a[0], a[1], a[2], a[3], a[4], a[5], a[6])
		},
	},
	{
		Name:       "optimReadoutSeq",
		Params:     []string{"t_readout_delay", "t_aom"},
		Modulation: ModulationOff,
		build: func(h Hardware, a []float64) ([]ir.Channel, error) {
			return ReadoutSweepSeq(h, a[0], a[1])
		},
	},
}

// Names returns the registered sequence names in registration order.
func Names() []string {
	names := make([]string, len(generators))
	for i, g := range generators {
		names[i] = g.Name
	}
	return names
}

// Lookup returns the generator registered under name.
func Lookup(name string) (Generator, error) {
	i := slices.IndexFunc(generators, func(g Generator) bool { return g.Name == name })
	if i < 0 {
		return Generator{}, ir.NewConfigError(ir.ErrCodeUnknownSequence, "sequence",
			"unknown sequence %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return generators[i], nil
}

// Generate builds the channels for the named sequence from its positional
// arguments.
func Generate(h Hardware, name string, args ...float64) ([]ir.Channel, error) {
	g, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return g.Build(h, args...)
}
