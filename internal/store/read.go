package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pulseseq/internal/ir"
)

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadProgram returns the stored program with the given content id.
// Returns sql.ErrNoRows (wrapped) if no such program exists.
func (s *Store) ReadProgram(ctx context.Context, id string) (ir.Program, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT sequence, args, quantum_ns, total_ns, instructions
		FROM programs
		WHERE id = ?
	`, id)
	p, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.Program{}, fmt.Errorf("program %s: %w", id, err)
		}
		return ir.Program{}, fmt.Errorf("read program: %w", err)
	}
	return p, nil
}

func scanProgram(row rowScanner) (ir.Program, error) {
	var (
		p         ir.Program
		argsJSON  string
		instrJSON string
	)
	if err := row.Scan(&p.Sequence, &argsJSON, &p.QuantumNS, &p.TotalNS, &instrJSON); err != nil {
		return ir.Program{}, err
	}
	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return ir.Program{}, err
	}
	instrs, err := unmarshalInstructions(instrJSON)
	if err != nil {
		return ir.Program{}, err
	}
	p.Args = args
	p.Instructions = instrs
	return p, nil
}

// ReadRun returns one run record.
// Returns sql.ErrNoRows (wrapped) if the run does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.Run, error) {
	var run ir.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, experiment, sequence, points, seq
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Experiment, &run.Sequence, &run.Points, &run.Seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.Run{}, fmt.Errorf("run %s: %w", id, err)
		}
		return ir.Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ListRuns returns every run in creation order:
// ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, experiment, sequence, points, seq
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		var run ir.Run
		if err := rows.Scan(&run.ID, &run.Experiment, &run.Sequence, &run.Points, &run.Seq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRunPoints returns the recorded points of a run ordered by index.
//
// Returns an empty slice (not nil) if the run has no points.
func (s *Store) ReadRunPoints(ctx context.Context, runID string) ([]ir.RunPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, point_index, scan_value, program_id
		FROM run_points
		WHERE run_id = ?
		ORDER BY point_index ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run points: %w", err)
	}
	defer rows.Close()

	points := []ir.RunPoint{}
	for rows.Next() {
		var pt ir.RunPoint
		if err := rows.Scan(&pt.RunID, &pt.Index, &pt.ScanValue, &pt.ProgramID); err != nil {
			return nil, fmt.Errorf("scan run point: %w", err)
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run points: %w", err)
	}
	return points, nil
}

// CountProgramRuns returns how many distinct runs used a program.
func (s *Store) CountProgramRuns(ctx context.Context, programID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT run_id) FROM run_points WHERE program_id = ?
	`, programID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count program runs: %w", err)
	}
	return n, nil
}
