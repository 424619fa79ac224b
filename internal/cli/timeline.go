package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/timeline"
)

// TimelineOptions holds flags for the timeline command.
type TimelineOptions struct {
	*RootOptions
	Point int
}

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimelineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timeline <experiment.cue>",
		Short: "Print the output waveforms of one scan point",
		Long: `Compile one scan point and expand the table back into per-line waveforms.

Text output prints one row per edge sample with a column per line. JSON
output carries the shared time axis and the levels of each line, ready to
plot as step functions.

Examples:
  pulseseq timeline t2.cue --point 3
  pulseseq timeline xy8.cue --format json > waveforms.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Point, "point", 0, "scan point index")

	return cmd
}

func runTimeline(opts *TimelineOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	plan, err := loadPlan(formatter, path, logger, ExitCommandError)
	if err != nil {
		return err
	}
	prog, err := plan.Compile(opts.Point)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "compiling", err)
	}

	tl := timeline.Reconstruct(prog.Instructions, outputLines(plan.Hardware))
	if formatter.Format == "json" {
		return formatter.Success(tl)
	}
	return writeTimelineText(formatter, tl)
}

func writeTimelineText(f *OutputFormatter, tl timeline.Timeline) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', tabwriter.AlignRight)

	header := []string{"time_ns"}
	for _, w := range tl.Channels {
		header = append(header, w.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	row := make([]string, len(header))
	for i, t := range tl.TimesNS {
		row[0] = fmt.Sprintf("%g", t)
		for j, w := range tl.Channels {
			row[j+1] = fmt.Sprintf("%d", w.Levels[i])
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
