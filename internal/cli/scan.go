package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/device"
	"github.com/roach88/pulseseq/internal/store"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// ScanResult summarizes a recorded scan.
type ScanResult struct {
	RunID    string `json:"run_id"`
	Sequence string `json:"sequence"`
	Points   int    `json:"points"`
	Programs int    `json:"programs"` // distinct programs
	Stored   int    `json:"stored"`   // programs new to the database
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan <experiment.cue>",
		Short: "Compile and record every scan point",
		Long: `Compile every point of an experiment, record the run, and load each
program into the pulse programmer.

No hardware driver is linked into this binary: programs are loaded into an
in-memory recorder that enforces the board's call order, and the microwave
settings are applied to a recording source. The run and the program of each
point are stored in the database for history and replay.

Example:
  pulseseq scan t2.cue --db ./pulseseq.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runScan(ctx, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runScan(ctx context.Context, opts *ScanOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	plan, err := loadPlan(formatter, path, logger, ExitCommandError)
	if err != nil {
		return err
	}
	e := plan.Experiment

	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "opening database", err)
	}
	defer st.Close()

	session := device.NewSession(device.NewRecorder(0), logger)
	defer session.Close(context.Background())
	source := &device.RecordingSource{}

	run, err := st.CreateRun(ctx, path, e.Sequence, len(plan.Points))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "creating run", err)
	}
	logger.Info("scan started", "run", run.ID, "sequence", e.Sequence, "points", len(plan.Points))

	result := ScanResult{RunID: run.ID, Sequence: e.Sequence, Points: len(plan.Points)}
	seen := make(map[string]bool)
	for i, point := range plan.Points {
		prog, err := plan.Compile(i)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "compiling", err)
		}

		id, inserted, err := st.RecordPoint(ctx, run.ID, i, point, prog)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("recording point %d", i), err)
		}
		seen[id] = true
		if inserted {
			result.Stored++
		}

		if err := device.PrepareSource(ctx, source, e.Sequence, e.FrequencyHz(point), e.Microwave.PowerDBm); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDevice, "configuring signal source", err)
		}
		if err := session.Run(ctx, prog.Instructions); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDevice, fmt.Sprintf("loading point %d", i), err)
		}
		logger.Debug("point loaded", "index", i, "value", point, "program", id, "instructions", len(prog.Instructions))
	}
	if err := session.Stop(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDevice, "stopping", err)
	}
	result.Programs = len(seen)
	logger.Info("scan recorded", "run", run.ID, "programs", result.Programs)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Recorded run %s\n", result.RunID)
	fmt.Fprintf(formatter.Writer, "  %s: %d point(s), %d distinct program(s), %d new\n",
		result.Sequence, result.Points, result.Programs, result.Stored)
	return nil
}

// cmdContext returns the command's context, or Background when it has none.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
