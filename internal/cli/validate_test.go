package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/config"
)

func TestValidateCommand_Valid(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})

	out, _, err := execute(t, cmd, "testdata/t2.cue")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ testdata/t2.cue is valid")
	assert.Contains(t, out, "5 points, 200 .. 1000")
}

func TestValidateCommand_JSON(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})

	out, _, err := execute(t, cmd, "testdata/t2.cue")
	require.NoError(t, err)

	var got struct {
		Sequence string   `json:"sequence"`
		Params   []string `json:"params"`
		Points   int      `json:"points"`
	}
	resp := decodeResponse(t, out, &got)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "T2seq", got.Sequence)
	assert.Equal(t, 5, got.Points)
	assert.NotEmpty(t, got.Params)
}

func TestValidateCommand_Invalid(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})

	out, _, err := execute(t, cmd, "testdata/bad_bit.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, config.ErrCodeSchema, resp.Error.Code)
}

func TestValidateCommand_MissingFile(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "json"})

	out, _, err := execute(t, cmd, "testdata/nope.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, config.ErrCodeRead, resp.Error.Code)
}
