package columnar

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func newPointTable(t *testing.T) (*schema.Registry, schema.Handle, *Table) {
	t.Helper()
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "a", Type: schema.U8},
		{Name: "b", Type: schema.U64},
	})
	require.NoError(t, err)

	table, err := NewTable(reg, handle, nil, testutil.TestLogger(t))
	require.NoError(t, err)
	return reg, handle, table
}

// paddedRecord builds {a: u8, b: u64} bytes in the registered 16-byte layout.
func paddedRecord(a uint8, b uint64) []byte {
	buf := make([]byte, 16)
	buf[0] = a
	binary.NativeEndian.PutUint64(buf[8:], b)
	return buf
}

func TestNewTableRejectsNonStruct(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))

	_, err := NewTable(reg, schema.F64, nil, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = NewTable(reg, schema.Handle(1000), nil, nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestTableColumnsMirrorFields(t *testing.T) {
	reg, handle, table := newPointTable(t)

	fields := reg.FieldsOf(handle)
	cols := table.Columns()
	require.Len(t, cols, len(fields))
	for i, f := range fields {
		assert.Equal(t, f.Name, cols[i].Name())
		assert.Equal(t, reg.SizeOf(f.Type), cols[i].ElemSize())
	}
	assert.Equal(t, 16, table.StructSize())
}

func TestTableInsertQueryRoundTrip(t *testing.T) {
	_, _, table := newPointTable(t)

	first := paddedRecord(7, 0xDEADBEEF)
	second := paddedRecord(9, 42)
	require.NoError(t, table.Insert(first))
	require.NoError(t, table.Insert(second))
	require.Equal(t, 2, table.NumRows())

	dst := make([]byte, 2*table.StructSize())
	n, err := table.QueryAllInto(dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Field bytes recompose exactly; padding in dst stays zero.
	assert.Equal(t, first[0], dst[0])
	assert.Equal(t, first[8:16], dst[8:16])
	assert.Equal(t, second[0], dst[16])
	assert.Equal(t, second[8:16], dst[24:32])
}

func TestTableInsertRejectsWrongSize(t *testing.T) {
	_, _, table := newPointTable(t)

	err := table.Insert(make([]byte, 15))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	err = table.Insert(make([]byte, 17))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, 0, table.NumRows())
}

func TestTableQueryEmptyIsNoop(t *testing.T) {
	_, _, table := newPointTable(t)

	n, err := table.QueryAllInto(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestTableQueryRejectsShortDestination(t *testing.T) {
	_, _, table := newPointTable(t)
	require.NoError(t, table.Insert(paddedRecord(1, 2)))

	_, err := table.QueryAllInto(make([]byte, 8))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestTableInsertNoFields(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct(nil)
	require.NoError(t, err)

	table, err := NewTable(reg, handle, nil, nil)
	require.NoError(t, err)

	err = table.Insert(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, 0, table.NumRows())
}

func TestTableInsertAtomicOnAllocationFailure(t *testing.T) {
	reg := schema.NewRegistry(testutil.TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "a", Type: schema.U8},
		{Name: "b", Type: schema.U64},
	})
	require.NoError(t, err)

	// Two allocations cover the initial growth of both columns; the next
	// growth, at row minCapacityRows+1, fails on the first column.
	alloc := &failingAlloc{allowed: 2}
	table, err := NewTable(reg, handle, alloc, testutil.TestLogger(t))
	require.NoError(t, err)

	for i := 0; i < minCapacityRows; i++ {
		require.NoError(t, table.Insert(paddedRecord(byte(i), uint64(i))))
	}

	err = table.Insert(paddedRecord(0xFF, 0xFFFF))
	require.Error(t, err)
	assert.True(t, errors.IsResource(err))

	// No partial append: every column still holds the same row count and
	// the table remains fully readable.
	for _, col := range table.Columns() {
		assert.Equal(t, minCapacityRows, col.NumRows())
	}
	dst := make([]byte, table.NumRows()*table.StructSize())
	n, err := table.QueryAllInto(dst)
	require.NoError(t, err)
	assert.Equal(t, minCapacityRows, n)
	assert.Equal(t, byte(minCapacityRows-1), dst[(minCapacityRows-1)*16])
}

func TestTableMemoryUsage(t *testing.T) {
	_, _, table := newPointTable(t)
	require.NoError(t, table.Insert(paddedRecord(1, 1)))

	// One u8 column and one u64 column, both at the minimum capacity.
	assert.Equal(t, int64(minCapacityRows*1+minCapacityRows*8), table.MemoryUsage())
}
