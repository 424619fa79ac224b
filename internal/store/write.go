package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pulseseq/internal/ir"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteProgram stores a compiled program under its content id.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same program
// twice returns the same id and inserted=false.
func (s *Store) WriteProgram(ctx context.Context, p ir.Program) (id string, inserted bool, err error) {
	id, inserted, err = s.writeProgram(ctx, s.db, p)
	if err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}
	return id, inserted, nil
}

func (s *Store) writeProgram(ctx context.Context, db execer, p ir.Program) (string, bool, error) {
	id, err := ir.ProgramID(p)
	if err != nil {
		return "", false, err
	}
	argsJSON, err := marshalArgs(p.Args)
	if err != nil {
		return "", false, err
	}
	instrJSON, err := marshalInstructions(p.Instructions)
	if err != nil {
		return "", false, err
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO programs
		(id, sequence, args, quantum_ns, total_ns, instructions, program_version, compiler_version, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		p.Sequence,
		argsJSON,
		p.QuantumNS,
		p.TotalNS,
		instrJSON,
		ir.ProgramVersion,
		ir.CompilerVersion,
		s.clock.Next(),
	)
	if err != nil {
		return "", false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("rows affected: %w", err)
	}
	return id, n > 0, nil
}

// CreateRun starts a new run record with a generated id.
func (s *Store) CreateRun(ctx context.Context, experiment, sequence string, points int) (ir.Run, error) {
	run := ir.Run{
		ID:         s.ids.Generate(),
		Experiment: experiment,
		Sequence:   sequence,
		Points:     points,
		Seq:        s.clock.Next(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, experiment, sequence, points, seq)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Experiment, run.Sequence, run.Points, run.Seq)
	if err != nil {
		return ir.Run{}, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// RecordPoint stores the program compiled for one scan point and links it
// to the run, atomically. Returns the program id and whether the program
// was new to the store.
//
// Re-recording a point is a no-op (ON CONFLICT DO NOTHING).
//
// Note: The run must exist (foreign key constraint).
func (s *Store) RecordPoint(ctx context.Context, runID string, index int, scanValue float64, p ir.Program) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("record point: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	id, inserted, err := s.writeProgram(ctx, tx, p)
	if err != nil {
		return "", false, fmt.Errorf("record point: program: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO run_points (run_id, point_index, scan_value, program_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, point_index) DO NOTHING
	`, runID, index, scanValue, id)
	if err != nil {
		return "", false, fmt.Errorf("record point: link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("record point: commit: %w", err)
	}
	return id, inserted, nil
}
