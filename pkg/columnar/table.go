package columnar

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/arena"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Table stores instances of one struct type, one Column per field in
// registry order. All columns always hold the same number of rows.
type Table struct {
	registry   *schema.Registry
	handle     schema.Handle
	structSize int
	fields     []schema.Field
	columns    []*Column
	logger     *zap.Logger
}

// NewTable creates a table for the struct type behind handle. The registry
// must outlive the table.
func NewTable(registry *schema.Registry, handle schema.Handle, alloc arena.Allocator, logger *zap.Logger) (*Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	meta, err := registry.Lookup(handle)
	if err != nil {
		return nil, err
	}
	if meta.Kind != schema.KindStruct {
		return nil, errors.Newf(errors.ErrorTypeValidation, "handle %d is %s, tables need a struct type", handle, meta.Kind)
	}

	fields := registry.FieldsOf(handle)
	columns := make([]*Column, 0, len(fields))
	for _, field := range fields {
		col, err := NewColumn(field.Name, registry.SizeOf(field.Type), alloc)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return &Table{
		registry:   registry,
		handle:     handle,
		structSize: int(meta.Size),
		fields:     fields,
		columns:    columns,
		logger:     logger,
	}, nil
}

// Handle returns the struct type this table stores.
func (t *Table) Handle() schema.Handle {
	return t.handle
}

// StructSize returns the size in bytes of one stored record.
func (t *Table) StructSize() int {
	return t.structSize
}

// NumRows returns the number of records stored.
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].NumRows()
}

// Columns returns the table's columns in field order. The slice is a view
// and must not be modified.
func (t *Table) Columns() []*Column {
	return t.columns
}

// MemoryUsage returns the bytes reserved across all columns.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for _, col := range t.columns {
		total += col.MemoryUsage()
	}
	return total
}

// Insert decomposes one record into the per-field columns. The record's
// byte layout must match the layout the registry computed for this type;
// a record of the wrong length is rejected.
//
// The insert is atomic across columns: capacity for the new row is
// reserved on every column before any bytes are appended, so an allocation
// failure leaves all row counts unchanged and equal.
func (t *Table) Insert(record []byte) error {
	if len(t.columns) == 0 {
		return errors.Newf(errors.ErrorTypeValidation, "struct type %d has no fields to insert into", t.handle)
	}
	if len(record) != t.structSize {
		return errors.Newf(errors.ErrorTypeValidation, "record is %d bytes, struct type %d needs exactly %d", len(record), t.handle, t.structSize)
	}

	rows := t.NumRows()
	for _, col := range t.columns {
		if err := col.EnsureCapacity(rows + 1); err != nil {
			return err
		}
	}

	// Committed: nothing below can fail.
	for i, field := range t.fields {
		start := int(field.ByteOffset)
		t.columns[i].appendUnchecked(record[start:])
	}
	return nil
}

// QueryAllInto recomposes every stored row into dst, which must hold at
// least NumRows()*StructSize() bytes. Row r lands at dst[r*StructSize():];
// within a row each field lands at its registered byte offset, so padding
// bytes in dst are left untouched. Returns the number of rows written; an
// empty table writes nothing and returns 0.
func (t *Table) QueryAllInto(dst []byte) (int, error) {
	rows := t.NumRows()
	if rows == 0 {
		return 0, nil
	}

	if need := rows * t.structSize; len(dst) < need {
		return 0, errors.Newf(errors.ErrorTypeValidation, "destination is %d bytes, %d rows of struct type %d need %d", len(dst), rows, t.handle, need)
	}

	for row := 0; row < rows; row++ {
		rowDst := dst[row*t.structSize:]
		for i, field := range t.fields {
			copy(rowDst[field.ByteOffset:], t.columns[i].rowAt(row))
		}
	}
	return rows, nil
}
