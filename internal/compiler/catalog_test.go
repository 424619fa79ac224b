package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/ir"
)

func ch(name string, mask uint32, pp ...int64) ir.Channel {
	c := ir.Channel{Name: name, Mask: mask}
	for i := 0; i+1 < len(pp); i += 2 {
		c.Pulses = append(c.Pulses, ir.Pulse{Start: pp[i], Duration: pp[i+1]})
	}
	return c
}

func TestCatalog_SinglePulse(t *testing.T) {
	cat, err := Catalog([]ir.Channel{ch("a", 4, 0, 250)})
	require.NoError(t, err)

	assert.Equal(t, EdgeCatalog{0: 4, 250: 4}, cat)
	assert.Equal(t, Table{Times: []int64{0, 250}, States: []uint32{4, 0}}, cat.Cumulative())
}

func TestCatalog_TwoChannels(t *testing.T) {
	cat, err := Catalog([]ir.Channel{
		ch("a", 1, 0, 100),
		ch("b", 2, 50, 100),
	})
	require.NoError(t, err)

	assert.Equal(t, EdgeCatalog{0: 1, 50: 2, 100: 1, 150: 2}, cat)
	tbl := cat.Cumulative()
	assert.Equal(t, []int64{0, 50, 100, 150}, tbl.Times)
	assert.Equal(t, []uint32{1, 3, 2, 0}, tbl.States)
	assert.Equal(t, int64(150), tbl.Total())
}

func TestCatalog_OrderIndependent(t *testing.T) {
	forward, err := Catalog([]ir.Channel{
		ch("a", 1, 0, 10, 40, 10, 80, 10),
		ch("b", 2, 5, 30),
	})
	require.NoError(t, err)

	reversed, err := Catalog([]ir.Channel{
		ch("b", 2, 5, 30),
		ch("a", 1, 80, 10, 40, 10, 0, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, forward, reversed)
	assert.Equal(t, forward.Cumulative(), reversed.Cumulative())
}

func TestCatalog_ZeroLengthPulseCancels(t *testing.T) {
	cat, err := Catalog([]ir.Channel{
		ch("a", 1, 0, 100),
		ch("b", 2, 50, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(0), cat[50])
	tbl := cat.Cumulative()
	assert.Equal(t, []int64{0, 100}, tbl.Times)
	assert.Equal(t, []uint32{1, 0}, tbl.States)
}

func TestCatalog_RetriggerAtOwnFall(t *testing.T) {
	cat, err := Catalog([]ir.Channel{ch("a", 1, 0, 50, 50, 50)})
	require.NoError(t, err)

	tbl := cat.Cumulative()
	assert.Equal(t, []int64{0, 100}, tbl.Times)
	assert.Equal(t, []uint32{1, 0}, tbl.States)
}

func TestCatalog_HandoverBetweenChannels(t *testing.T) {
	cat, err := Catalog([]ir.Channel{
		ch("a", 1, 0, 50),
		ch("b", 2, 50, 50),
	})
	require.NoError(t, err)

	tbl := cat.Cumulative()
	assert.Equal(t, []int64{0, 50, 100}, tbl.Times)
	assert.Equal(t, []uint32{1, 2, 0}, tbl.States)
}

func TestCatalog_OriginAlwaysPresent(t *testing.T) {
	cat, err := Catalog([]ir.Channel{ch("a", 1, 100, 50)})
	require.NoError(t, err)

	tbl := cat.Cumulative()
	assert.Equal(t, []int64{0, 100, 150}, tbl.Times)
	assert.Equal(t, []uint32{0, 1, 0}, tbl.States)
}

func TestCatalog_MultiBitFlagMerges(t *testing.T) {
	cat, err := Catalog([]ir.Channel{
		ch("flag", 0x200000, 10, 10),
		ch("mw", 2, 10, 10),
	})
	require.NoError(t, err)

	tbl := cat.Cumulative()
	assert.Equal(t, []uint32{0, 0x200002, 0}, tbl.States)
}

func TestCatalog_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		channel ir.Channel
		code    string
	}{
		{name: "zero mask", channel: ch("a", 0, 0, 10), code: ir.ErrCodeZeroMask},
		{name: "negative start", channel: ch("a", 1, -10, 20), code: ir.ErrCodeNegativeTime},
		{name: "negative duration", channel: ch("a", 1, 10, -5), code: ir.ErrCodeNegativeTime},
		{name: "overlap", channel: ch("a", 1, 0, 20, 10, 20), code: ir.ErrCodeOverlap},
		{name: "overlap unsorted", channel: ch("a", 1, 10, 20, 0, 20), code: ir.ErrCodeOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Catalog([]ir.Channel{tt.channel})
			require.Error(t, err)
			assert.True(t, ir.IsInvariantError(err))
			assert.False(t, ir.IsConfigError(err))
			assert.Equal(t, tt.code, ir.ErrorCode(err))
		})
	}
}

func TestTable_StateAt(t *testing.T) {
	tbl := Table{Times: []int64{0, 50, 100, 150}, States: []uint32{1, 3, 2, 0}}

	assert.Equal(t, uint32(1), tbl.StateAt(0))
	assert.Equal(t, uint32(1), tbl.StateAt(49))
	assert.Equal(t, uint32(3), tbl.StateAt(50))
	assert.Equal(t, uint32(2), tbl.StateAt(149))
	assert.Equal(t, uint32(0), tbl.StateAt(150))
	assert.Equal(t, uint32(0), tbl.StateAt(-1))
}
