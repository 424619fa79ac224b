package store

import (
	"context"
	"fmt"

	"github.com/roach88/pulseseq/internal/ir"
)

// ReplayRun visits each recorded point of a run in index order together
// with the program stored for it. Iteration stops at the first error
// returned by fn, which is passed through wrapped.
//
// Stored programs are returned exactly as compiled, so replay never depends
// on the current generator code.
func (s *Store) ReplayRun(ctx context.Context, runID string, fn func(ir.RunPoint, ir.Program) error) error {
	if _, err := s.ReadRun(ctx, runID); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	points, err := s.ReadRunPoints(ctx, runID)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	cache := make(map[string]ir.Program)
	for _, pt := range points {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, ok := cache[pt.ProgramID]
		if !ok {
			p, err = s.ReadProgram(ctx, pt.ProgramID)
			if err != nil {
				return fmt.Errorf("replay point %d: %w", pt.Index, err)
			}
			cache[pt.ProgramID] = p
		}
		if err := fn(pt, p); err != nil {
			return fmt.Errorf("replay point %d: %w", pt.Index, err)
		}
	}
	return nil
}
