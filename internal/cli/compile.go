package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Point    int    // scan point index
	Database string // optional store path
	Output   string // output file path
}

// CompileOutput is the result of compiling one scan point.
type CompileOutput struct {
	ProgramID string     `json:"program_id"`
	Point     int        `json:"point"`
	ScanValue float64    `json:"scan_value"`
	Stored    bool       `json:"stored"`
	Program   ir.Program `json:"program"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <experiment.cue>",
		Short: "Compile one scan point to an instruction table",
		Long: `Compile one scan point of an experiment to a looping instruction table.

The experiment is validated first. With --db the program is stored under its
content id; storing the same program again is a no-op.

Examples:
  pulseseq compile t2.cue
  pulseseq compile t2.cue --point 10 --db ./pulseseq.db
  pulseseq compile t2.cue -o program.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmdContext(cmd), opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Point, "point", 0, "scan point index")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the program in this SQLite database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical program JSON to this file")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, path string, cmd *cobra.Command) error {
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
	id, err := ir.ProgramID(prog)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "hashing program", err)
	}

	out := CompileOutput{
		ProgramID: id,
		Point:     opts.Point,
		ScanValue: plan.Points[opts.Point],
		Program:   prog,
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "opening database", err)
		}
		defer st.Close()

		_, inserted, err := st.WriteProgram(ctx, prog)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "storing program", err)
		}
		out.Stored = inserted
		formatter.VerboseLog("Program %s stored=%t in %s", id, inserted, opts.Database)
	}

	if opts.Output != "" {
		if err := writeProgramFile(prog, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %s point %d (%g): %d instruction(s), %dns\n",
		prog.Sequence, out.Point, out.ScanValue, len(prog.Instructions), prog.TotalNS)
	fmt.Fprintf(w, "Program %s\n\n", id)
	for i, in := range prog.Instructions {
		fmt.Fprintf(w, "%4d  %s\n", i, in)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "\nWrote program to %s\n", opts.Output)
	}
	return nil
}

// writeProgramFile writes the canonical JSON form, the bytes ProgramID hashes.
func writeProgramFile(p ir.Program, path string) error {
	data, err := ir.MarshalCanonical(ir.CanonicalProgram(p))
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
