package schema

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/errors"
)

const defaultTypeCapacity = 50

// Registry computes and stores the binary layout of registered types.
// Primitive types occupy the reserved handles at construction; struct types
// are appended by RegisterStruct and keep their handle forever.
//
// The registry is single-writer and performs no internal locking. Callers
// sharing a registry across goroutines must serialize access externally,
// and the registry must outlive every Table and Store built on it.
type Registry struct {
	types  []Meta
	fields []Field
	logger *zap.Logger
}

// NewRegistry creates a registry with the primitive handles installed.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		types:  make([]Meta, 0, defaultTypeCapacity),
		fields: make([]Field, 0, defaultTypeCapacity*4),
		logger: logger,
	}
	r.initPrimitives()
	return r
}

// RegisterStruct lays out a struct type from its ordered field list and
// returns its handle. Fields are placed in the exact order given: the
// running offset is rounded up to each field's alignment before placement,
// and the total size is rounded up to the maximum field alignment, matching
// native struct layout rules.
//
// Every field type must already be registered (no forward references), and
// field names must be non-empty and unique within the struct.
func (r *Registry) RegisterStruct(specs []FieldSpec) (Handle, error) {
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return InvalidHandle, errors.Newf(errors.ErrorTypeValidation, "field %d has empty name", i)
		}
		if _, dup := seen[spec.Name]; dup {
			return InvalidHandle, errors.Newf(errors.ErrorTypeValidation, "duplicate field name %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		if !r.Valid(spec.Type) {
			return InvalidHandle, errors.Newf(errors.ErrorTypeValidation, "field %q references unknown type handle %d", spec.Name, spec.Type)
		}
	}

	var (
		totalSize uint32
		maxAlign  uint32 = 1
	)
	fieldBase := uint32(len(r.fields))

	for _, spec := range specs {
		meta := r.types[spec.Type]

		totalSize = alignUp(totalSize, meta.Alignment)
		r.fields = append(r.fields, Field{
			Type:       spec.Type,
			ByteOffset: totalSize,
			Name:       spec.Name,
		})

		totalSize += meta.Size
		if meta.Alignment > maxAlign {
			maxAlign = meta.Alignment
		}
	}

	// Trailing padding so arrays of this struct stay aligned.
	totalSize = alignUp(totalSize, maxAlign)

	handle := r.registerType(Meta{
		Size:      totalSize,
		Alignment: maxAlign,
		Kind:      KindStruct,
		fieldsOff: fieldBase,
		fieldsLen: uint32(len(specs)),
	})

	r.logger.Debug("struct type registered",
		zap.Uint32("handle", uint32(handle)),
		zap.Uint32("size", totalSize),
		zap.Uint32("alignment", maxAlign),
		zap.Int("fields", len(specs)))

	return handle, nil
}

// MustRegisterStruct is RegisterStruct that panics on invalid field specs.
func (r *Registry) MustRegisterStruct(specs []FieldSpec) Handle {
	handle, err := r.RegisterStruct(specs)
	if err != nil {
		panic(err)
	}
	return handle
}

// SizeOf returns the size in bytes of the type behind handle.
// It panics on an invalid handle.
func (r *Registry) SizeOf(handle Handle) int {
	return int(r.meta(handle).Size)
}

// AlignOf returns the alignment requirement of the type behind handle.
// It panics on an invalid handle.
func (r *Registry) AlignOf(handle Handle) int {
	return int(r.meta(handle).Alignment)
}

// KindOf returns the kind of the type behind handle.
// It panics on an invalid handle.
func (r *Registry) KindOf(handle Handle) Kind {
	return r.meta(handle).Kind
}

// FieldsOf returns the ordered fields of a struct type, or nil for a
// primitive. The returned slice is a view into the registry's field table
// and must not be modified. It panics on an invalid handle.
func (r *Registry) FieldsOf(handle Handle) []Field {
	meta := r.meta(handle)
	return r.fields[meta.fieldsOff : meta.fieldsOff+meta.fieldsLen]
}

// Lookup returns the metadata for handle, or a not-found error for handles
// outside the registry.
func (r *Registry) Lookup(handle Handle) (Meta, error) {
	if !r.Valid(handle) {
		return Meta{}, errors.Newf(errors.ErrorTypeNotFound, "no type registered for handle %d", handle)
	}
	return r.types[handle], nil
}

// Valid reports whether handle names a registered type.
func (r *Registry) Valid(handle Handle) bool {
	return uint32(handle) < uint32(len(r.types))
}

// NumTypes returns the number of registered types, primitives included.
func (r *Registry) NumTypes() int {
	return len(r.types)
}

// meta returns the metadata entry for handle, failing fast on a handle the
// caller had no right to hold.
func (r *Registry) meta(handle Handle) Meta {
	if !r.Valid(handle) {
		panic(fmt.Sprintf("schema: invalid type handle %d (registry has %d types)", handle, len(r.types)))
	}
	return r.types[handle]
}

func (r *Registry) registerType(meta Meta) Handle {
	handle := Handle(len(r.types))
	r.types = append(r.types, meta)
	return handle
}

func (r *Registry) initPrimitives() {
	r.registerType(Meta{Size: 8, Alignment: 8, Kind: KindU64})  // 0
	r.registerType(Meta{Size: 4, Alignment: 4, Kind: KindU32})  // 1
	r.registerType(Meta{Size: 2, Alignment: 2, Kind: KindU16})  // 2
	r.registerType(Meta{Size: 1, Alignment: 1, Kind: KindU8})   // 3
	r.registerType(Meta{Size: 8, Alignment: 8, Kind: KindI64})  // 4
	r.registerType(Meta{Size: 4, Alignment: 4, Kind: KindI32})  // 5
	r.registerType(Meta{Size: 2, Alignment: 2, Kind: KindI16})  // 6
	r.registerType(Meta{Size: 1, Alignment: 1, Kind: KindI8})   // 7
	r.registerType(Meta{Size: 8, Alignment: 8, Kind: KindF64})  // 8
	r.registerType(Meta{Size: 4, Alignment: 4, Kind: KindF32})  // 9
	r.registerType(Meta{Size: 1, Alignment: 1, Kind: KindBool}) // 10
}

// alignUp rounds value up to the next multiple of align. Alignments in the
// registry are powers of two by construction; anything else is a bug.
func alignUp(value, align uint32) uint32 {
	if align == 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("schema: alignment %d is not a power of two", align))
	}
	return (value + align - 1) &^ (align - 1)
}
