package cli

import (
	"errors"
	"log/slog"

	"github.com/roach88/pulseseq/internal/config"
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// loadPlan loads and validates an experiment file.
//
// A missing or unreadable file is a command error. Anything wrong with the
// experiment itself is reported with invalidExit.
func loadPlan(f *OutputFormatter, path string, logger *slog.Logger, invalidExit int) (*config.Plan, error) {
	e, err := config.Load(path)
	if err != nil {
		var le *config.LoadError
		if errors.As(err, &le) && le.Code == config.ErrCodeRead {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, "reading experiment", err)
		}
		return nil, f.Fail(invalidExit, ErrCodeGeneric, "loading experiment", err)
	}
	f.VerboseLog("Loaded %s: sequence %s, %d scan points", path, e.Sequence, e.Scan.Points)

	plan, err := config.Validate(*e, logger)
	if err != nil {
		return nil, f.Fail(invalidExit, ErrCodeGeneric, "invalid experiment", err)
	}
	return plan, nil
}

// outputLines returns the channel map used for timelines: the experiment's
// lines plus the short-pulse flag bits.
func outputLines(hw sequence.Hardware) ir.ChannelMap {
	m := hw.Lines.Map()
	m["flag"] = sequence.FlagMask
	return m
}
