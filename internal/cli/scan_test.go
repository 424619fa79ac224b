package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/store"
	"github.com/roach88/pulseseq/internal/testutil"
)

// scanWithIDs runs a scan of the T2 experiment into db with sequential run ids.
func scanWithIDs(t *testing.T, db string, ids *testutil.SequentialIDs) ScanResult {
	t.Helper()
	opts := &ScanOptions{
		RootOptions: &RootOptions{Format: "json"},
		Database:    db,
		IDGenerator: ids,
	}
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, runScan(t.Context(), opts, "testdata/t2.cue", cmd))

	var got ScanResult
	decodeResponse(t, out.String(), &got)
	return got
}

func TestScanCommand_RecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pulseseq.db")

	got := scanWithIDs(t, db, testutil.NewSequentialIDs("run"))

	assert.Equal(t, "run-0001", got.RunID)
	assert.Equal(t, "T2seq", got.Sequence)
	assert.Equal(t, 5, got.Points)
	assert.Equal(t, 5, got.Programs)
	assert.Equal(t, 5, got.Stored)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	points, err := st.ReadRunPoints(t.Context(), got.RunID)
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.Equal(t, []float64{200, 400, 600, 800, 1000}, []float64{
		points[0].ScanValue, points[1].ScanValue, points[2].ScanValue, points[3].ScanValue, points[4].ScanValue,
	})
}

func TestScanCommand_SecondRunReusesPrograms(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pulseseq.db")
	ids := testutil.NewSequentialIDs("run")

	first := scanWithIDs(t, db, ids)
	second := scanWithIDs(t, db, ids)

	assert.Equal(t, "run-0001", first.RunID)
	assert.Equal(t, "run-0002", second.RunID)
	assert.Equal(t, 5, second.Programs)
	assert.Equal(t, 0, second.Stored, "identical programs are stored once")
}

func TestScanCommand_Text(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pulseseq.db")
	cmd := NewScanCommand(&RootOptions{Format: "text"})

	out, _, err := execute(t, cmd, "testdata/t2.cue", "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Recorded run ")
	assert.Contains(t, out, "T2seq: 5 point(s), 5 distinct program(s), 5 new")
}

func TestScanCommand_RequiresDB(t *testing.T) {
	cmd := NewScanCommand(&RootOptions{Format: "text"})

	_, _, err := execute(t, cmd, "testdata/t2.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db" not set`)
}

func TestScanCommand_InvalidExperiment(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pulseseq.db")
	cmd := NewScanCommand(&RootOptions{Format: "text"})

	_, _, err := execute(t, cmd, "testdata/bad_bit.cue", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
