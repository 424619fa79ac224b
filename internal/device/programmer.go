package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/pulseseq/internal/ir"
)

// PulseProgrammer drives a pulse-generator board.
//
// Program writes one instruction and returns the hardware address it was
// stored at. Branch targets passed to Program are hardware addresses.
type PulseProgrammer interface {
	StartProgramming(ctx context.Context) error
	Program(ctx context.Context, in ir.Instruction) (addr int, err error)
	StopProgramming(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Close() error
}

// ErrEmptyProgram is returned when Load is given no instructions.
var ErrEmptyProgram = errors.New("empty program")

// ErrForwardBranch is returned when a BRANCH targets an instruction whose
// address is not yet known. Compiled programs only branch back to 0.
var ErrForwardBranch = errors.New("branch target not yet programmed")

// Load programs instrs into p and starts it.
//
// Compiled tables address instructions by index. The first instruction is
// programmed alone to learn the board's start address; the remaining ones
// follow with BRANCH targets rewritten from indices to hardware addresses.
// A lone BRANCH cannot name its own address before it has one, so a
// single-state table is loaded as a CONTINUE and a BRANCH holding the same
// mask for the same duration. The outputs are identical. Any other table
// whose first instruction branches is rejected with ErrForwardBranch.
//
// When programming fails part-way, StopProgramming is still called so the
// board leaves programming mode; its error is joined to the first one.
//
// Returns the hardware address of each programmed instruction.
func Load(ctx context.Context, p PulseProgrammer, instrs []ir.Instruction) ([]int, error) {
	if len(instrs) == 0 {
		return nil, ErrEmptyProgram
	}

	if len(instrs) == 1 && instrs[0].Op == ir.Branch {
		hold := instrs[0]
		hold.Op = ir.Continue
		hold.Target = 0
		instrs = []ir.Instruction{hold, instrs[0]}
	}

	first := instrs[0]
	if first.Op == ir.Branch {
		return nil, fmt.Errorf("instruction 0: %w", ErrForwardBranch)
	}

	if err := p.StartProgramming(ctx); err != nil {
		return nil, fmt.Errorf("start programming: %w", err)
	}

	addrs := make([]int, 0, len(instrs))

	// Pass 1: the first instruction fixes the loop start.
	addr, err := p.Program(ctx, first)
	if err != nil {
		return nil, abort(ctx, p, fmt.Errorf("program instruction 0: %w", err))
	}
	addrs = append(addrs, addr)

	// Pass 2: everything else, targets resolved against known addresses.
	for i, in := range instrs[1:] {
		idx := i + 1
		if err := ctx.Err(); err != nil {
			return nil, abort(ctx, p, err)
		}
		if in.Op == ir.Branch {
			if in.Target < 0 || in.Target >= len(addrs) {
				return nil, abort(ctx, p, fmt.Errorf("instruction %d -> %d: %w", idx, in.Target, ErrForwardBranch))
			}
			in.Target = addrs[in.Target]
		}
		addr, err := p.Program(ctx, in)
		if err != nil {
			return nil, abort(ctx, p, fmt.Errorf("program instruction %d: %w", idx, err))
		}
		addrs = append(addrs, addr)
	}

	if err := p.StopProgramming(ctx); err != nil {
		return nil, fmt.Errorf("stop programming: %w", err)
	}
	if err := p.Start(ctx); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	return addrs, nil
}

// abort takes the board out of programming mode after a failed load. It
// runs even when ctx is cancelled.
func abort(ctx context.Context, p PulseProgrammer, err error) error {
	if stopErr := p.StopProgramming(context.WithoutCancel(ctx)); stopErr != nil {
		return errors.Join(err, fmt.Errorf("stop programming: %w", stopErr))
	}
	return err
}
