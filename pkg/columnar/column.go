package columnar

import (
	"github.com/ajitpratap0/strata/pkg/arena"
	"github.com/ajitpratap0/strata/pkg/errors"
)

// minCapacityRows is the smallest capacity a column grows to, in rows.
const minCapacityRows = 16

// Column is one field's append-only byte store. Every element occupies
// exactly elemSize bytes; the buffer only ever grows, and it grows by whole
// elements through the injected allocator.
type Column struct {
	name     string
	elemSize int
	buf      []byte
	alloc    arena.Allocator
}

// NewColumn creates a column for elements of elemSize bytes. A nil
// allocator selects the Go heap.
func NewColumn(name string, elemSize int, alloc arena.Allocator) (*Column, error) {
	if elemSize <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "column %q needs a positive element size, got %d", name, elemSize)
	}
	if alloc == nil {
		alloc = arena.Heap{}
	}
	return &Column{
		name:     name,
		elemSize: elemSize,
		alloc:    alloc,
	}, nil
}

// Name returns the column's field name.
func (c *Column) Name() string {
	return c.name
}

// ElemSize returns the fixed per-element size in bytes.
func (c *Column) ElemSize() int {
	return c.elemSize
}

// NumRows returns the number of elements stored.
func (c *Column) NumRows() int {
	return len(c.buf) / c.elemSize
}

// MemoryUsage returns the bytes currently reserved for the buffer.
func (c *Column) MemoryUsage() int64 {
	return int64(cap(c.buf))
}

// EnsureCapacity grows the buffer, if needed, so that rows elements fit
// without further allocation. The element count never changes here, so a
// failed growth leaves the column exactly as it was - this is what makes
// multi-column inserts atomic.
func (c *Column) EnsureCapacity(rows int) error {
	need := rows * c.elemSize
	if need <= cap(c.buf) {
		return nil
	}

	newCap := cap(c.buf) * 2
	if min := minCapacityRows * c.elemSize; newCap < min {
		newCap = min
	}
	if newCap < need {
		newCap = need
	}

	grown, err := c.alloc.Alloc(newCap, arena.DefaultAlign)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeResource, "column growth failed").
			WithDetail("column", c.name).
			WithDetail("requested_bytes", newCap)
	}

	copy(grown, c.buf)
	c.buf = grown[:len(c.buf)]
	return nil
}

// Append copies exactly elemSize bytes from src to the end of the buffer.
// src shorter than elemSize is a validation error.
func (c *Column) Append(src []byte) error {
	if len(src) < c.elemSize {
		return errors.Newf(errors.ErrorTypeValidation, "column %q expects %d bytes per element, got %d", c.name, c.elemSize, len(src))
	}
	if err := c.EnsureCapacity(c.NumRows() + 1); err != nil {
		return err
	}
	c.appendUnchecked(src)
	return nil
}

// appendUnchecked copies one element assuming capacity was already
// reserved via EnsureCapacity. It cannot fail.
func (c *Column) appendUnchecked(src []byte) {
	n := len(c.buf)
	c.buf = c.buf[:n+c.elemSize]
	copy(c.buf[n:], src[:c.elemSize])
}

// RowAt returns a read-only view of one element's bytes, bounds-checked at
// the column boundary.
func (c *Column) RowAt(row int) ([]byte, error) {
	if row < 0 || row >= c.NumRows() {
		return nil, errors.Newf(errors.ErrorTypeValidation, "row %d out of range [0, %d) in column %q", row, c.NumRows(), c.name)
	}
	return c.rowAt(row), nil
}

// rowAt is the unchecked fast path for the query loop.
func (c *Column) rowAt(row int) []byte {
	start := row * c.elemSize
	return c.buf[start : start+c.elemSize]
}
