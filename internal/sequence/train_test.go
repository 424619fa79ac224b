package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/ir"
)

func TestCPMG_SinglePi(t *testing.T) {
	tp, err := CPMG(1000, 100, 20, 10, 1).Build()
	require.NoError(t, err)

	assert.Equal(t, []span{{1000, 10}, {1095, 20}, {1200, 10}}, tp.MW)
	assert.Equal(t, []span{{1085, 40}, {1190, 30}}, tp.Q)
	assert.Equal(t, []span{{1190, 30}}, tp.I)
	assert.Equal(t, 1210.0, tp.End())
}

func TestCPMG_MultiPiSplitsOuterDelay(t *testing.T) {
	tp, err := CPMG(1000, 100, 20, 10, 2).Build()
	require.NoError(t, err)

	assert.Equal(t, []span{{1000, 10}, {1045, 20}, {1145, 20}, {1200, 10}}, tp.MW)
	assert.Equal(t, []span{{1035, 40}, {1135, 40}, {1190, 30}}, tp.Q)
}

func TestXY8_PhasePattern(t *testing.T) {
	tp, err := XY8(0, 100, 20, 10, 1).Build()
	require.NoError(t, err)

	require.Len(t, tp.MW, 10)
	assert.Equal(t, span{45, 20}, tp.MW[1])
	assert.Equal(t, span{745, 20}, tp.MW[8])
	assert.Equal(t, span{800, 10}, tp.MW[9])

	assert.Equal(t, []span{{135, 40}, {335, 40}, {435, 40}, {635, 40}, {790, 30}}, tp.Q)
	assert.Equal(t, []span{{790, 30}}, tp.I)
}

func TestXY8_Repeats(t *testing.T) {
	tp, err := XY8(0, 100, 20, 10, 3).Build()
	require.NoError(t, err)

	assert.Len(t, tp.MW, 26)
	assert.Len(t, tp.Q, 13)
}

func TestXY8Phase(t *testing.T) {
	var ys []int
	for i := 0; i < 16; i++ {
		if XY8Phase(i) {
			ys = append(ys, i)
		}
	}
	assert.Equal(t, []int{1, 3, 4, 6, 9, 11, 12, 14}, ys)
}

func TestTrain_Errors(t *testing.T) {
	_, err := CPMG(1000, 100, 20, 10, 0).Build()
	assert.Equal(t, ir.ErrCodeCount, ir.ErrorCode(err))

	_, err = CPMG(0, 10, 20, 30, 1).Build()
	assert.Equal(t, ir.ErrCodeRange, ir.ErrorCode(err))
	assert.True(t, ir.IsConfigError(err))
}

func TestTrainPulses_Shift(t *testing.T) {
	tp, err := CPMG(1000, 100, 20, 10, 1).Build()
	require.NoError(t, err)

	moved := tp.shift(500)
	assert.Equal(t, 1710.0, moved.End())
	assert.Equal(t, span{1690, 30}, moved.I[0])
	// The original is untouched.
	assert.Equal(t, 1210.0, tp.End())
}
