package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/strata/pkg/errors"
)

const testPageSize = 1 << 16 // small power-of-two region, no huge pages needed

func newTestArena(t *testing.T, pages int) *Arena {
	t.Helper()
	a, err := New(pages, testPageSize, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

func TestArenaAllocBumpsAligned(t *testing.T) {
	a := newTestArena(t, 1)

	first, err := a.Alloc(10, 8)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 10, a.Used())

	// Cursor at 10 rounds up to 16 for the next 8-aligned request.
	_, err = a.Alloc(8, 8)
	require.NoError(t, err)
	assert.Equal(t, 24, a.Used())
}

func TestArenaDefaultAlign(t *testing.T) {
	a := newTestArena(t, 1)

	_, err := a.Alloc(1, 0)
	require.NoError(t, err)

	_, err = a.Alloc(1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultAlign+1, a.Used())
}

func TestArenaExhaustion(t *testing.T) {
	a := newTestArena(t, 1)

	_, err := a.Alloc(testPageSize, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Available())

	_, err = a.Alloc(1, 1)
	require.Error(t, err)
	assert.True(t, errors.IsResource(err))
}

func TestArenaReset(t *testing.T) {
	a := newTestArena(t, 1)

	_, err := a.Alloc(100, 1)
	require.NoError(t, err)
	require.Equal(t, 100, a.Used())

	a.Reset()
	assert.Equal(t, 0, a.Used())
	assert.Equal(t, a.Cap(), a.Available())

	buf, err := a.Alloc(testPageSize, 1)
	require.NoError(t, err)
	assert.Len(t, buf, testPageSize)
}

func TestArenaResetZeroesReusedMemory(t *testing.T) {
	a := newTestArena(t, 1)

	first, err := a.Alloc(64, 1)
	require.NoError(t, err)
	for i := range first {
		first[i] = 0xAB
	}

	a.Reset()

	second, err := a.Alloc(64, 1)
	require.NoError(t, err)
	for i, b := range second {
		require.Zerof(t, b, "byte %d not zeroed after reset", i)
	}
}

func TestArenaPrefault(t *testing.T) {
	a := newTestArena(t, 2)
	a.Prefault()
	assert.Equal(t, 2*testPageSize, a.Cap())
}

func TestArenaRejectsBadGeometry(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := New(0, testPageSize, logger)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = New(1, 1000, logger) // not a power of two
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestArenaRejectsBadAlign(t *testing.T) {
	a := newTestArena(t, 1)

	_, err := a.Alloc(8, 3)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestHeapAlloc(t *testing.T) {
	var h Heap

	buf, err := h.Alloc(128, 8)
	require.NoError(t, err)
	assert.Len(t, buf, 128)

	_, err = h.Alloc(-1, 8)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
