package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/sequence"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationSummary describes a valid experiment.
type ValidationSummary struct {
	Sequence   string              `json:"sequence"`
	Params     []string            `json:"params"`
	Modulation sequence.Modulation `json:"modulation"`
	QuantumNS  int64               `json:"quantum_ns"`
	Points     int                 `json:"points"`
	First      float64             `json:"first"`
	Last       float64             `json:"last"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <experiment.cue>",
		Short: "Validate an experiment without running it",
		Long: `Validate an experiment file against the schema and the timing rules.

The first and last scan points are compiled in full. Values that are
adjusted to the hardware resolution are reported as warnings on stderr.

Exit codes:
  0 - Experiment is valid
  1 - Experiment is invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	plan, err := loadPlan(formatter, path, logger, ExitFailure)
	if err != nil {
		return err
	}

	g, err := sequence.Lookup(plan.Experiment.Sequence)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "invalid experiment", err)
	}
	summary := ValidationSummary{
		Sequence:   g.Name,
		Params:     g.Params,
		Modulation: g.Modulation,
		QuantumNS:  plan.Hardware.QuantumNS,
		Points:     len(plan.Points),
		First:      plan.Points[0],
		Last:       plan.Points[len(plan.Points)-1],
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	fmt.Fprintf(formatter.Writer, "  sequence:   %s (%s)\n", summary.Sequence, summary.Modulation)
	fmt.Fprintf(formatter.Writer, "  resolution: %dns\n", summary.QuantumNS)
	fmt.Fprintf(formatter.Writer, "  scan:       %d points, %g .. %g\n", summary.Points, summary.First, summary.Last)
	return nil
}
