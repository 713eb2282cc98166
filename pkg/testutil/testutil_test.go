package testutil

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVec3Registry(t *testing.T) {
	reg, handle := NewVec3Registry(t)

	assert.Equal(t, 24, reg.SizeOf(handle))
	require.Len(t, reg.FieldsOf(handle), 3)
}

func TestMustRecordWritesAtOffsets(t *testing.T) {
	reg, handle := NewVec3Registry(t)

	buf := MustRecord(t, reg, handle, 1.5, -2.5, 3.25)
	require.Len(t, buf, 24)
	assert.Equal(t, 1.5, math.Float64frombits(binary.NativeEndian.Uint64(buf[0:])))
	assert.Equal(t, -2.5, math.Float64frombits(binary.NativeEndian.Uint64(buf[8:])))
	assert.Equal(t, 3.25, math.Float64frombits(binary.NativeEndian.Uint64(buf[16:])))
}
