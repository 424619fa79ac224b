package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeText(t *testing.T) {
	for _, op := range []Opcode{Continue, Branch} {
		text, err := op.MarshalText()
		require.NoError(t, err)

		var back Opcode
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, op, back)
	}

	var op Opcode
	require.NoError(t, op.UnmarshalText([]byte("branch")))
	assert.Equal(t, Branch, op)

	assert.Error(t, op.UnmarshalText([]byte("STOP")))
	_, err := Opcode(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Opcode(7)", Opcode(7).String())
}

func TestInstructionString(t *testing.T) {
	in := Instruction{Mask: 0x200003, Op: Branch, Target: 0, Duration: 1250}
	assert.Equal(t, "0x200003 BRANCH     0 1250ns", in.String())
}

func TestPulseEnd(t *testing.T) {
	assert.Equal(t, int64(350), Pulse{Start: 300, Duration: 50}.End())
}

func TestJSONFieldNaming(t *testing.T) {
	data, err := json.Marshal(testProgram())
	require.NoError(t, err)

	for _, key := range []string{`"quantum_ns"`, `"total_ns"`, `"duration_ns"`, `"op":"CONTINUE"`} {
		assert.Contains(t, string(data), key)
	}

	data, err = json.Marshal(RunPoint{RunID: "r", Index: 1, ScanValue: 200, ProgramID: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"r","index":1,"scan_value":200,"program_id":"p"}`, string(data))
}

func TestProgramJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(testProgram())
	require.NoError(t, err)

	var back Program
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, testProgram(), back)
}
