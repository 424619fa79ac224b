package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/compiler"
	"github.com/roach88/pulseseq/internal/config"
	"github.com/roach88/pulseseq/internal/device"
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database   string
	Experiment string // recompile against this experiment's hardware
}

// ReplayPoint is the replay outcome of one scan point.
type ReplayPoint struct {
	Index      int     `json:"index"`
	ScanValue  float64 `json:"scan_value"`
	ProgramID  string  `json:"program_id"`
	Recompiled string  `json:"recompiled_id,omitempty"`
	Match      bool    `json:"match"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	RunID         string        `json:"run_id"`
	Points        []ReplayPoint `json:"points"`
	Verified      bool          `json:"verified"`
	Deterministic bool          `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Reload a recorded run and verify it recompiles identically",
		Long: `Load the stored program of every point of a run, in order.

With --experiment, each point is also recompiled from its stored arguments
using the experiment's hardware, and the content ids are compared. A
difference means the generators changed since the run was recorded.

Exit codes:
  0 - Replay succeeded (and every point recompiled identically)
  1 - A recompiled program differs from the stored one
  2 - Command error (database or run not found, etc.)

Examples:
  pulseseq replay 0190c6a4-... --db ./pulseseq.db
  pulseseq replay 0190c6a4-... --db ./pulseseq.db --experiment t2.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmdContext(cmd), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Experiment, "experiment", "", "recompile against this experiment's hardware")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	var hw *sequence.Hardware
	if opts.Experiment != "" {
		e, err := config.Load(opts.Experiment)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "loading experiment", err)
		}
		h, err := e.HardwareSpec()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "hardware", err)
		}
		h.Logger = logger
		hw = &h
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "opening database", err)
	}
	defer st.Close()

	session := device.NewSession(device.NewRecorder(0), logger)
	defer session.Close(context.Background())

	result := ReplayResult{RunID: runID, Points: []ReplayPoint{}, Verified: hw != nil, Deterministic: true}
	err = st.ReplayRun(ctx, runID, func(pt ir.RunPoint, p ir.Program) error {
		rp := ReplayPoint{Index: pt.Index, ScanValue: pt.ScanValue, ProgramID: pt.ProgramID, Match: true}
		if hw != nil {
			id, err := recompile(*hw, p)
			if err != nil {
				return err
			}
			rp.Recompiled = id
			rp.Match = id == pt.ProgramID
			if !rp.Match {
				result.Deterministic = false
				logger.Warn("program differs", "index", pt.Index, "stored", pt.ProgramID, "recompiled", id)
			}
		}
		result.Points = append(result.Points, rp)
		return session.Run(ctx, p.Instructions)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "replaying run", err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "replaying run", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeReplayText(formatter, result)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: run %s does not recompile identically", ErrCodeMismatch, runID))
	}
	return nil
}

// recompile rebuilds a stored program from its sequence and arguments.
func recompile(hw sequence.Hardware, p ir.Program) (string, error) {
	again, err := compiler.CompileSequence(hw, p.Sequence, p.Args...)
	if err != nil {
		return "", err
	}
	return ir.ProgramID(again)
}

func writeReplayText(f *OutputFormatter, r ReplayResult) {
	for _, pt := range r.Points {
		mark := "✓"
		if !pt.Match {
			mark = "✗"
		}
		fmt.Fprintf(f.Writer, "%s [%d] %g %s\n", mark, pt.Index, pt.ScanValue, pt.ProgramID)
	}
	switch {
	case !r.Verified:
		fmt.Fprintf(f.Writer, "Replayed %d point(s) of run %s\n", len(r.Points), r.RunID)
	case r.Deterministic:
		fmt.Fprintf(f.Writer, "Replayed %d point(s) of run %s: all recompile identically\n", len(r.Points), r.RunID)
	default:
		fmt.Fprintf(f.Writer, "Replayed %d point(s) of run %s: programs differ\n", len(r.Points), r.RunID)
	}
}
