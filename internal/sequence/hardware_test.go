package sequence

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/ir"
)

// testHardware is a 500 MHz generator (2ns quantum) on the default lines.
func testHardware(t *testing.T) Hardware {
	t.Helper()
	h, err := NewHardware(500, DefaultLines)
	require.NoError(t, err)
	return h
}

// capturingHardware returns hardware whose logger writes into buf.
func capturingHardware(t *testing.T, buf *bytes.Buffer) Hardware {
	t.Helper()
	h := testHardware(t)
	h.Logger = slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return h
}

func TestNewHardware(t *testing.T) {
	tests := []struct {
		name    string
		mhz     float64
		quantum int64
		wantErr bool
	}{
		{name: "500MHz", mhz: 500, quantum: 2},
		{name: "100MHz", mhz: 100, quantum: 10},
		{name: "1GHz", mhz: 1000, quantum: 1},
		{name: "fractional period", mhz: 300, wantErr: true},
		{name: "zero", mhz: 0, wantErr: true},
		{name: "negative", mhz: -500, wantErr: true},
		{name: "faster than 1ns", mhz: 2000, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHardware(tt.mhz, DefaultLines)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ir.ErrCodeHardware, ir.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantum, h.QuantumNS)
		})
	}
}

func TestHardware_RoundHalfEven(t *testing.T) {
	h := testHardware(t)

	assert.Equal(t, int64(0), h.Round(1))  // 0.5 quanta
	assert.Equal(t, int64(4), h.Round(3))  // 1.5 quanta
	assert.Equal(t, int64(4), h.Round(5))  // 2.5 quanta
	assert.Equal(t, int64(8), h.Round(7))  // 3.5 quanta
	assert.Equal(t, int64(1000), h.Round(1000))
	assert.Equal(t, int64(8), h.RoundTo(6, 2))
	assert.Equal(t, int64(40), h.RoundTo(42, 2))
}

func TestHardware_Aligned(t *testing.T) {
	h := testHardware(t)

	assert.True(t, h.Aligned(6, 1))
	assert.False(t, h.Aligned(6, 2))
	assert.True(t, h.Aligned(-4, 2))
	assert.False(t, h.Aligned(3, 1))
	assert.True(t, h.Aligned(0, 2))
}

func TestLines_Map(t *testing.T) {
	m := DefaultLines.Map()
	assert.Len(t, m, 6)
	assert.Equal(t, uint32(1), m["aom"])
	assert.Equal(t, uint32(32), m["q"])
}

func TestHardware_AdjustWarns(t *testing.T) {
	var buf bytes.Buffer
	h := capturingHardware(t, &buf)

	assert.Equal(t, 40.0, h.adjust("t_pi", 42, 2))
	assert.Contains(t, buf.String(), "field=t_pi")
	assert.Contains(t, buf.String(), "adjusted_ns=40")

	buf.Reset()
	assert.Equal(t, 44.0, h.adjust("t_pi", 44, 2))
	assert.Empty(t, buf.String())
}
