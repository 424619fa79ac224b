package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/compiler"
	"github.com/roach88/pulseseq/internal/config"
	"github.com/roach88/pulseseq/internal/device"
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// HoldOptions holds flags for the hold command.
type HoldOptions struct {
	*RootOptions
	Experiment string // optional experiment file for the channel wiring
	State      uint32 // outputs currently held, toggled by the named lines
}

// HoldResult is the static program for a set of lines.
type HoldResult struct {
	Channels     []string         `json:"channels"`
	Mask         uint32           `json:"mask"`
	Instructions []ir.Instruction `json:"instructions"`
}

// NewHoldCommand creates the hold command.
func NewHoldCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HoldOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hold [channel...]",
		Short: "Hold output lines at a static level",
		Long: `Build and load a program that holds the outputs at a static level.

Each named line is toggled relative to --state, the mask currently held
(default all low), so naming a line that is on switches it off. With no
lines the --state mask is held unchanged. Channel names are aom, mw, daq,
start, i and q, wired as in --experiment or the default wiring.

Examples:
  pulseseq hold aom
  pulseseq hold aom mw --experiment t2.cue
  pulseseq hold mw --state 0x3`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHold(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Experiment, "experiment", "", "experiment file providing the channel wiring")
	cmd.Flags().Uint32Var(&opts.State, "state", 0, "mask of the outputs currently held")

	return cmd
}

func runHold(opts *HoldOptions, names []string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	lines := sequence.DefaultLines
	if opts.Experiment != "" {
		e, err := config.Load(opts.Experiment)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "loading experiment", err)
		}
		lines, err = e.Hardware.Channels.Lines()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "channel wiring", err)
		}
	}

	mask, err := holdMask(lines.Map(), opts.State, names)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeChannel, "resolving channels", err)
	}

	instrs := compiler.Hold(mask)
	session := device.NewSession(device.NewRecorder(0), logger)
	defer session.Close(cmdContext(cmd))
	if err := session.Run(cmdContext(cmd), instrs); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDevice, "loading hold program", err)
	}

	result := HoldResult{Channels: names, Mask: mask, Instructions: instrs}
	if result.Channels == nil {
		result.Channels = []string{}
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Holding %s (mask 0x%06X)\n", describeMask(lines.Map(), mask), mask)
	for i, in := range instrs {
		fmt.Fprintf(formatter.Writer, "%4d  %s\n", i, in)
	}
	return nil
}

// holdMask toggles the named lines in state.
func holdMask(lines ir.ChannelMap, state uint32, names []string) (uint32, error) {
	mask := state
	for _, name := range names {
		m, ok := lines[name]
		if !ok {
			known := make([]string, 0, len(lines))
			for k := range lines {
				known = append(known, k)
			}
			slices.Sort(known)
			return 0, fmt.Errorf("unknown channel %q (known: %s)", name, strings.Join(known, ", "))
		}
		mask = compiler.Toggle(mask, m)
	}
	return mask, nil
}

// describeMask names the lines that are high in mask.
func describeMask(lines ir.ChannelMap, mask uint32) string {
	var high []string
	for name, m := range lines {
		if mask&m != 0 {
			high = append(high, name)
		}
	}
	if len(high) == 0 {
		return "all lines low"
	}
	slices.Sort(high)
	return strings.Join(high, ", ") + " high"
}
