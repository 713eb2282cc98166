package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func TestRecordRoundTripThroughStore(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "id", Type: schema.U64},
		{Name: "count", Type: schema.I32},
		{Name: "ratio", Type: schema.F32},
		{Name: "level", Type: schema.U8},
		{Name: "active", Type: schema.Bool},
		{Name: "delta", Type: schema.I8},
		{Name: "short", Type: schema.I16},
		{Name: "mask", Type: schema.U16},
		{Name: "wide", Type: schema.U32},
		{Name: "offset", Type: schema.I64},
		{Name: "score", Type: schema.F64},
	})
	require.NoError(t, err)
	store := NewStore(reg)

	rec, err := NewRecord(reg, handle)
	require.NoError(t, err)
	require.NoError(t, rec.SetU64(0, 12345))
	require.NoError(t, rec.SetI32(1, -77))
	require.NoError(t, rec.SetF32(2, 0.5))
	require.NoError(t, rec.SetU8(3, 200))
	require.NoError(t, rec.SetBool(4, true))
	require.NoError(t, rec.SetI8(5, -3))
	require.NoError(t, rec.SetI16(6, -1024))
	require.NoError(t, rec.SetU16(7, 0xBEEF))
	require.NoError(t, rec.SetU32(8, 0xCAFED00D))
	require.NoError(t, rec.SetI64(9, -987654321))
	require.NoError(t, rec.SetF64(10, 2.718281828))

	require.NoError(t, store.Insert(rec.Bytes(), handle))

	buf, n, err := store.QueryAll(handle)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	view, err := NewRowView(reg, handle, buf)
	require.NoError(t, err)

	id, err := view.U64(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), id)
	count, err := view.I32(1)
	require.NoError(t, err)
	assert.Equal(t, int32(-77), count)
	ratio, err := view.F32(2)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), ratio)
	level, err := view.U8(3)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), level)
	active, err := view.Bool(4)
	require.NoError(t, err)
	assert.True(t, active)
	delta, err := view.I8(5)
	require.NoError(t, err)
	assert.Equal(t, int8(-3), delta)
	short, err := view.I16(6)
	require.NoError(t, err)
	assert.Equal(t, int16(-1024), short)
	mask, err := view.U16(7)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), mask)
	wide, err := view.U32(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFED00D), wide)
	offset, err := view.I64(9)
	require.NoError(t, err)
	assert.Equal(t, int64(-987654321), offset)
	score, err := view.F64(10)
	require.NoError(t, err)
	assert.Equal(t, 2.718281828, score)
}

func TestRecordKindMismatch(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "value", Type: schema.F64},
	})
	require.NoError(t, err)

	rec, err := NewRecord(reg, handle)
	require.NoError(t, err)

	err = rec.SetU64(0, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	err = rec.SetF64(5, 1.0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestRecordRejectsNonStruct(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))

	_, err := NewRecord(reg, schema.U64)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = NewRowView(reg, schema.U64, make([]byte, 8))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestRecordNestedStruct(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	inner, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "x", Type: schema.F32},
		{Name: "y", Type: schema.F32},
	})
	require.NoError(t, err)
	outer, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "id", Type: schema.U32},
		{Name: "pos", Type: inner},
	})
	require.NoError(t, err)

	pos, err := NewRecord(reg, inner)
	require.NoError(t, err)
	require.NoError(t, pos.SetF32(0, 1.5))
	require.NoError(t, pos.SetF32(1, -2.5))

	rec, err := NewRecord(reg, outer)
	require.NoError(t, err)
	require.NoError(t, rec.SetU32(0, 99))
	require.NoError(t, rec.SetStruct(1, pos.Bytes()))

	err = rec.SetStruct(1, make([]byte, 3))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	store := NewStore(reg)
	require.NoError(t, store.Insert(rec.Bytes(), outer))

	buf, n, err := store.QueryAll(outer)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	view, err := NewRowView(reg, outer, buf)
	require.NoError(t, err)
	id, err := view.U32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), id)

	posBytes, err := view.Struct(1)
	require.NoError(t, err)
	posView, err := NewRowView(reg, inner, posBytes)
	require.NoError(t, err)
	x, err := posView.F32(0)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), x)
	y, err := posView.F32(1)
	require.NoError(t, err)
	assert.Equal(t, float32(-2.5), y)
}

func TestRecordReset(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "v", Type: schema.U64},
	})
	require.NoError(t, err)

	rec, err := NewRecord(reg, handle)
	require.NoError(t, err)
	require.NoError(t, rec.SetU64(0, ^uint64(0)))

	rec.Reset()
	assert.Equal(t, make([]byte, 8), rec.Bytes())
}

func TestRowViewRejectsShortBuffer(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "v", Type: schema.U64},
	})
	require.NoError(t, err)

	_, err = NewRowView(reg, handle, make([]byte, 4))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
