package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/ir"
)

func TestReplayRun_VisitsPointsInOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	run, err := s.CreateRun(ctx, "t2.cue", "T2seq", 3)
	require.NoError(t, err)
	taus := []float64{1000, 1200, 1000}
	for i, tau := range taus {
		_, _, err := s.RecordPoint(ctx, run.ID, i, tau, createTestProgram(tau))
		require.NoError(t, err)
	}

	var visited []float64
	err = s.ReplayRun(ctx, run.ID, func(pt ir.RunPoint, p ir.Program) error {
		assert.Equal(t, createTestProgram(pt.ScanValue), p)
		visited = append(visited, pt.ScanValue)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, taus, visited)
}

func TestReplayRun_StopsOnError(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	run, err := s.CreateRun(ctx, "t2.cue", "T2seq", 2)
	require.NoError(t, err)
	for i, tau := range []float64{1000, 1200} {
		_, _, err := s.RecordPoint(ctx, run.ID, i, tau, createTestProgram(tau))
		require.NoError(t, err)
	}

	boom := errors.New("device fault")
	calls := 0
	err = s.ReplayRun(ctx, run.ID, func(ir.RunPoint, ir.Program) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestReplayRun_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	err := s.ReplayRun(t.Context(), "missing", func(ir.RunPoint, ir.Program) error {
		t.Fatal("callback invoked for unknown run")
		return nil
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
