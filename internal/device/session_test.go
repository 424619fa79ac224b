package device

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulseseq/internal/compiler"
)

func TestSession_RunStopClose(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(0)
	s := NewSession(r, nil)

	require.NoError(t, s.Run(ctx, compiler.Hold(0x01)))
	assert.True(t, s.Running())

	// A second run replaces the first.
	require.NoError(t, s.Run(ctx, compiler.Hold(0x02)))
	assert.Equal(t, uint32(0x02), r.Programmed()[0].Mask)
	assert.Equal(t, 2, r.Starts())

	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.Running())
	require.NoError(t, s.Stop(ctx), "stopping an idle session is a no-op")

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx), "close is idempotent")
	assert.Equal(t, StateClosed, r.State())
	assert.ErrorIs(t, s.Run(ctx, compiler.Hold(0x01)), ErrClosed)
}

func TestSession_CloseStopsRunningProgram(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(0)
	s := NewSession(r, nil)

	require.NoError(t, s.Run(ctx, compiler.Hold(0x01)))
	require.NoError(t, s.Close(ctx))
	assert.False(t, s.Running())
}

func TestSession_ConcurrentRuns(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(0)
	s := NewSession(r, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(mask uint32) {
			defer wg.Done()
			assert.NoError(t, s.Run(ctx, compiler.Hold(mask)))
		}(uint32(1 << (i % 6)))
	}
	wg.Wait()

	// Every load completed whole: both steps carry the same mask.
	got := r.Programmed()
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Mask, got[1].Mask)
	assert.Equal(t, 20, r.Starts())
}
