package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Run      string // show the points of one run
}

// RunDetail is one run together with its recorded points.
type RunDetail struct {
	Run    ir.Run        `json:"run"`
	Points []ir.RunPoint `json:"points"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded in a database, oldest first.

With --run, print the scan points of one run and the program each used.

Examples:
  pulseseq history --db ./pulseseq.db
  pulseseq history --db ./pulseseq.db --run 0190c6a4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmdContext(cmd), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the points of this run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "opening database", err)
	}
	defer st.Close()

	if opts.Run != "" {
		return showRun(ctx, formatter, st, opts.Run)
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "listing runs", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tSEQUENCE\tPOINTS\tEXPERIMENT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.Seq, r.ID, r.Sequence, r.Points, r.Experiment)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, formatter *OutputFormatter, st *store.Store, id string) error {
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "reading run", err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "reading run", err)
	}
	points, err := st.ReadRunPoints(ctx, id)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "reading run points", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunDetail{Run: run, Points: points})
	}
	fmt.Fprintf(formatter.Writer, "Run %s: %s, %d/%d point(s) recorded\n",
		run.ID, run.Sequence, len(points), run.Points)
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tVALUE\tPROGRAM")
	for _, pt := range points {
		fmt.Fprintf(tw, "%d\t%g\t%s\n", pt.Index, pt.ScanValue, pt.ProgramID)
	}
	return tw.Flush()
}

// openExisting opens a database that must already exist. store.Open would
// create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}
	return store.Open(path)
}
