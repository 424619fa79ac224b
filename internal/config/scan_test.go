package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

func experiment(seq string, scan Scan, params map[string]float64) Experiment {
	return Experiment{
		Hardware: HardwareConfig{
			ClockMHz: 500,
			Channels: ChannelBits{AOM: 0, MW: 1, DAQ: 2, Start: 3, I: 4, Q: 5},
		},
		Sequence:  seq,
		Scan:      scan,
		Params:    params,
		Microwave: Microwave{FrequencyHz: 2.87e9, PowerDBm: -10},
	}
}

func t2Params(tPi, nPi float64) map[string]float64 {
	return map[string]float64{
		"t_aom": 3000, "t_readout_delay": 500, "t_pi": tPi, "iq_padding": 10, "n_pi": nPi,
	}
}

func hardware(t *testing.T, e Experiment, buf *bytes.Buffer) sequence.Hardware {
	t.Helper()
	hw, err := e.HardwareSpec()
	require.NoError(t, err)
	if buf != nil {
		hw.Logger = slog.New(slog.NewTextHandler(buf, nil))
	}
	return hw
}

func TestScanPoints_Linspace(t *testing.T) {
	e := experiment("T2seq", Scan{Start: 200, End: 1000, Points: 5}, t2Params(40, 1))
	points, err := e.ScanPoints(hardware(t, e, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 400, 600, 800, 1000}, points)
}

func TestScanPoints_RoundsStep(t *testing.T) {
	var buf bytes.Buffer
	e := experiment("RabiSeq", Scan{Start: 0, End: 99, Points: 4}, map[string]float64{"t_aom": 3000, "t_readout_delay": 500})
	points, err := e.ScanPoints(hardware(t, e, &buf))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 32, 64, 96}, points)
	assert.Contains(t, buf.String(), "rounded scan step")
}

func TestScanPoints_StepTooShort(t *testing.T) {
	e := experiment("RabiSeq", Scan{Start: 0, End: 2, Points: 3}, nil)
	_, err := e.ScanPoints(hardware(t, e, nil))
	assert.Equal(t, ir.ErrCodeRange, ir.ErrorCode(err))

	// Split trains step on a double quantum.
	e = experiment("XY8seq", Scan{Start: 200, End: 206, Points: 3}, t2Params(40, 1))
	_, err = e.ScanPoints(hardware(t, e, nil))
	assert.Equal(t, ir.ErrCodeRange, ir.ErrorCode(err))
}

func TestScanPoints_EdgeShift(t *testing.T) {
	var buf bytes.Buffer
	// t_pi/4 = 11ns puts the first π edge off the 2ns grid.
	e := experiment("T2seq", Scan{Start: 200, End: 400, Points: 3}, t2Params(44, 1))
	points, err := e.ScanPoints(hardware(t, e, &buf))
	require.NoError(t, err)
	assert.Equal(t, []float64{201, 301, 401}, points)
	assert.Contains(t, buf.String(), "shift_ns=1")

	// With a split outer delay the edge moves by half the shift.
	e = experiment("XY8seq", Scan{Start: 200, End: 400, Points: 3}, t2Params(44, 1))
	points, err = e.ScanPoints(hardware(t, e, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{202, 302, 402}, points)
}

func TestScanPoints_StartChecks(t *testing.T) {
	tests := []struct {
		name string
		exp  Experiment
		code string
	}{
		{
			name: "negative rabi start",
			exp:  experiment("RabiSeq", Scan{Start: -10, End: 100, Points: 12}, nil),
			code: ir.ErrCodeRange,
		},
		{
			name: "misaligned hahn start",
			exp:  experiment("T2seq", Scan{Start: 201, End: 1001, Points: 5}, t2Params(40, 1)),
			code: ir.ErrCodeMisaligned,
		},
		{
			name: "xy8 start off double quantum",
			exp:  experiment("XY8seq", Scan{Start: 202, End: 1002, Points: 5}, t2Params(40, 1)),
			code: ir.ErrCodeMisaligned,
		},
		{
			name: "t1 start inside readout",
			exp:  experiment("T1seq", Scan{Start: 1000, End: 5000, Points: 5}, map[string]float64{"t_readout_delay": 500}),
			code: ir.ErrCodeTooShort,
		},
		{
			name: "echo start below floor",
			exp:  experiment("T2seq", Scan{Start: 20, End: 220, Points: 5}, t2Params(40, 1)),
			code: ir.ErrCodeTooShort,
		},
		{
			name: "single point",
			exp:  experiment("T2seq", Scan{Start: 200, End: 200, Points: 1}, t2Params(40, 1)),
			code: ir.ErrCodeCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.exp.ScanPoints(hardware(t, tt.exp, nil))
			require.Error(t, err)
			assert.Equal(t, tt.code, ir.ErrorCode(err))
		})
	}
}

func TestScanPoints_ESRFrequency(t *testing.T) {
	e := experiment("ESRseq", Scan{Start: 2.85e9, End: 2.89e9, Points: 41}, map[string]float64{"t_duration": 5000})
	points, err := e.ScanPoints(hardware(t, e, nil))
	require.NoError(t, err)
	require.Len(t, points, 41)
	assert.Equal(t, 2.85e9, points[0])
	assert.Equal(t, 2.89e9, points[40])
	assert.InDelta(t, 2.86e9, points[10], 1e-3)
}

func TestSequenceArgs(t *testing.T) {
	e := experiment("T2seq", Scan{Start: 200, End: 1000, Points: 5}, t2Params(40, 2))
	hw := hardware(t, e, nil)

	args, err := e.SequenceArgs(hw, 400)
	require.NoError(t, err)
	assert.Equal(t, []float64{400, 3000, 500, 40, 10, 2}, args)

	esr := experiment("ESRseq", Scan{Start: 2.85e9, End: 2.89e9, Points: 41}, map[string]float64{"t_duration": 5000})
	args, err = esr.SequenceArgs(hw, 2.86e9)
	require.NoError(t, err)
	assert.Equal(t, []float64{5000}, args)
	assert.Equal(t, 2.86e9, esr.FrequencyHz(2.86e9))
	assert.Equal(t, 2.87e9, e.FrequencyHz(400))
}

func TestSequenceArgs_MissingParam(t *testing.T) {
	e := experiment("T2seq", Scan{Start: 200, End: 1000, Points: 5}, map[string]float64{"t_aom": 3000})
	_, err := e.SequenceArgs(hardware(t, e, nil), 200)
	require.Error(t, err)
	assert.Equal(t, ir.ErrCodeArity, ir.ErrorCode(err))
	assert.Contains(t, err.Error(), "params.t_readout_delay")
}

func TestSequenceArgs_Tau0Shift(t *testing.T) {
	params := map[string]float64{
		"tau0": 206, "t_aom": 3000, "t_readout_delay": 500, "t_pi": 40, "iq_padding": 10, "n_repeats": 1,
	}
	e := experiment("correlSpecSeq", Scan{Start: 0, End: 10000, Points: 11}, params)
	args, err := e.SequenceArgs(hardware(t, e, nil), 1000)
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 208, 3000, 500, 40, 10, 1}, args)

	params["tau0"] = 204
	args, err = e.SequenceArgs(hardware(t, e, nil), 1000)
	require.NoError(t, err)
	assert.Equal(t, 204.0, args[1])
}

func TestChannelBits_Lines(t *testing.T) {
	lines, err := ChannelBits{AOM: 0, MW: 1, DAQ: 2, Start: 3, I: 4, Q: 5}.Lines()
	require.NoError(t, err)
	assert.Equal(t, sequence.DefaultLines, lines)

	_, err = ChannelBits{AOM: 1, MW: 1, DAQ: 2, Start: 3, I: 4, Q: 5}.Lines()
	assert.Equal(t, ir.ErrCodeHardware, ir.ErrorCode(err))
	assert.Contains(t, err.Error(), "already assigned to aom")
}
