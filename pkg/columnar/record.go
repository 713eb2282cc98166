package columnar

import (
	"encoding/binary"
	"math"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// layout is the shared byte-view plumbing behind Record and RowView: a
// buffer interpreted through a registry-computed field layout, with every
// access bounds- and kind-checked at the field boundary.
type layout struct {
	registry *schema.Registry
	handle   schema.Handle
	fields   []schema.Field
}

func newLayout(registry *schema.Registry, handle schema.Handle) (layout, error) {
	meta, err := registry.Lookup(handle)
	if err != nil {
		return layout{}, err
	}
	if meta.Kind != schema.KindStruct {
		return layout{}, errors.Newf(errors.ErrorTypeValidation, "handle %d is %s, record views need a struct type", handle, meta.Kind)
	}
	return layout{
		registry: registry,
		handle:   handle,
		fields:   registry.FieldsOf(handle),
	}, nil
}

// field resolves a field index and checks the value kind the caller is
// about to read or write.
func (l layout) field(idx int, want schema.Kind) (schema.Field, error) {
	if idx < 0 || idx >= len(l.fields) {
		return schema.Field{}, errors.Newf(errors.ErrorTypeValidation, "field index %d out of range [0, %d) on struct type %d", idx, len(l.fields), l.handle)
	}
	f := l.fields[idx]
	if kind := l.registry.KindOf(f.Type); kind != want {
		return schema.Field{}, errors.Newf(errors.ErrorTypeValidation, "field %q is %s, not %s", f.Name, kind, want)
	}
	return f, nil
}

// Record builds one struct instance byte-for-byte in the layout the
// registry computed, so it can be handed straight to Store.Insert. Setters
// address fields by their registration index.
type Record struct {
	layout
	buf []byte
}

// NewRecord creates a zeroed record of the struct type behind handle.
func NewRecord(registry *schema.Registry, handle schema.Handle) (*Record, error) {
	l, err := newLayout(registry, handle)
	if err != nil {
		return nil, err
	}
	return &Record{
		layout: l,
		buf:    make([]byte, registry.SizeOf(handle)),
	}, nil
}

// Bytes returns the record's backing buffer, sized exactly to the struct.
func (r *Record) Bytes() []byte {
	return r.buf
}

// Reset zeroes the record for reuse.
func (r *Record) Reset() {
	for i := range r.buf {
		r.buf[i] = 0
	}
}

// SetU64 writes a u64 field by index.
func (r *Record) SetU64(idx int, v uint64) error {
	f, err := r.field(idx, schema.KindU64)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint64(r.buf[f.ByteOffset:], v)
	return nil
}

// SetU32 writes a u32 field by index.
func (r *Record) SetU32(idx int, v uint32) error {
	f, err := r.field(idx, schema.KindU32)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(r.buf[f.ByteOffset:], v)
	return nil
}

// SetU16 writes a u16 field by index.
func (r *Record) SetU16(idx int, v uint16) error {
	f, err := r.field(idx, schema.KindU16)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint16(r.buf[f.ByteOffset:], v)
	return nil
}

// SetU8 writes a u8 field by index.
func (r *Record) SetU8(idx int, v uint8) error {
	f, err := r.field(idx, schema.KindU8)
	if err != nil {
		return err
	}
	r.buf[f.ByteOffset] = v
	return nil
}

// SetI64 writes an i64 field by index.
func (r *Record) SetI64(idx int, v int64) error {
	f, err := r.field(idx, schema.KindI64)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint64(r.buf[f.ByteOffset:], uint64(v))
	return nil
}

// SetI32 writes an i32 field by index.
func (r *Record) SetI32(idx int, v int32) error {
	f, err := r.field(idx, schema.KindI32)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(r.buf[f.ByteOffset:], uint32(v))
	return nil
}

// SetI16 writes an i16 field by index.
func (r *Record) SetI16(idx int, v int16) error {
	f, err := r.field(idx, schema.KindI16)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint16(r.buf[f.ByteOffset:], uint16(v))
	return nil
}

// SetI8 writes an i8 field by index.
func (r *Record) SetI8(idx int, v int8) error {
	f, err := r.field(idx, schema.KindI8)
	if err != nil {
		return err
	}
	r.buf[f.ByteOffset] = uint8(v)
	return nil
}

// SetF64 writes an f64 field by index.
func (r *Record) SetF64(idx int, v float64) error {
	f, err := r.field(idx, schema.KindF64)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint64(r.buf[f.ByteOffset:], math.Float64bits(v))
	return nil
}

// SetF32 writes an f32 field by index.
func (r *Record) SetF32(idx int, v float32) error {
	f, err := r.field(idx, schema.KindF32)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(r.buf[f.ByteOffset:], math.Float32bits(v))
	return nil
}

// SetBool writes a bool field by index.
func (r *Record) SetBool(idx int, v bool) error {
	f, err := r.field(idx, schema.KindBool)
	if err != nil {
		return err
	}
	if v {
		r.buf[f.ByteOffset] = 1
	} else {
		r.buf[f.ByteOffset] = 0
	}
	return nil
}

// SetStruct copies a nested struct field's bytes by index. raw must be
// exactly the nested struct's size.
func (r *Record) SetStruct(idx int, raw []byte) error {
	f, err := r.field(idx, schema.KindStruct)
	if err != nil {
		return err
	}
	if size := r.registry.SizeOf(f.Type); len(raw) != size {
		return errors.Newf(errors.ErrorTypeValidation, "field %q needs exactly %d bytes, got %d", f.Name, size, len(raw))
	}
	copy(r.buf[f.ByteOffset:], raw)
	return nil
}

// RowView reads one recomposed row through the same layout descriptor,
// typically sliced out of a Store.QueryAll result.
type RowView struct {
	layout
	buf []byte
}

// NewRowView wraps one row's bytes. buf must be at least the struct size.
func NewRowView(registry *schema.Registry, handle schema.Handle, buf []byte) (*RowView, error) {
	l, err := newLayout(registry, handle)
	if err != nil {
		return nil, err
	}
	if size := registry.SizeOf(handle); len(buf) < size {
		return nil, errors.Newf(errors.ErrorTypeValidation, "row buffer is %d bytes, struct type %d needs %d", len(buf), handle, size)
	}
	return &RowView{layout: l, buf: buf}, nil
}

// U64 reads a u64 field by index.
func (v *RowView) U64(idx int) (uint64, error) {
	f, err := v.field(idx, schema.KindU64)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(v.buf[f.ByteOffset:]), nil
}

// U32 reads a u32 field by index.
func (v *RowView) U32(idx int) (uint32, error) {
	f, err := v.field(idx, schema.KindU32)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(v.buf[f.ByteOffset:]), nil
}

// U16 reads a u16 field by index.
func (v *RowView) U16(idx int) (uint16, error) {
	f, err := v.field(idx, schema.KindU16)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(v.buf[f.ByteOffset:]), nil
}

// U8 reads a u8 field by index.
func (v *RowView) U8(idx int) (uint8, error) {
	f, err := v.field(idx, schema.KindU8)
	if err != nil {
		return 0, err
	}
	return v.buf[f.ByteOffset], nil
}

// I64 reads an i64 field by index.
func (v *RowView) I64(idx int) (int64, error) {
	f, err := v.field(idx, schema.KindI64)
	if err != nil {
		return 0, err
	}
	return int64(binary.NativeEndian.Uint64(v.buf[f.ByteOffset:])), nil
}

// I32 reads an i32 field by index.
func (v *RowView) I32(idx int) (int32, error) {
	f, err := v.field(idx, schema.KindI32)
	if err != nil {
		return 0, err
	}
	return int32(binary.NativeEndian.Uint32(v.buf[f.ByteOffset:])), nil
}

// I16 reads an i16 field by index.
func (v *RowView) I16(idx int) (int16, error) {
	f, err := v.field(idx, schema.KindI16)
	if err != nil {
		return 0, err
	}
	return int16(binary.NativeEndian.Uint16(v.buf[f.ByteOffset:])), nil
}

// I8 reads an i8 field by index.
func (v *RowView) I8(idx int) (int8, error) {
	f, err := v.field(idx, schema.KindI8)
	if err != nil {
		return 0, err
	}
	return int8(v.buf[f.ByteOffset]), nil
}

// F64 reads an f64 field by index.
func (v *RowView) F64(idx int) (float64, error) {
	f, err := v.field(idx, schema.KindF64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(v.buf[f.ByteOffset:])), nil
}

// F32 reads an f32 field by index.
func (v *RowView) F32(idx int) (float32, error) {
	f, err := v.field(idx, schema.KindF32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.NativeEndian.Uint32(v.buf[f.ByteOffset:])), nil
}

// Bool reads a bool field by index.
func (v *RowView) Bool(idx int) (bool, error) {
	f, err := v.field(idx, schema.KindBool)
	if err != nil {
		return false, err
	}
	return v.buf[f.ByteOffset] != 0, nil
}

// Struct returns a nested struct field's bytes by index.
func (v *RowView) Struct(idx int) ([]byte, error) {
	f, err := v.field(idx, schema.KindStruct)
	if err != nil {
		return nil, err
	}
	size := v.registry.SizeOf(f.Type)
	return v.buf[f.ByteOffset : int(f.ByteOffset)+size], nil
}
