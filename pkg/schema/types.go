// Package schema provides the runtime type registry for strata.
// It computes and stores the binary layout (size, alignment, field offsets)
// of composite types registered at runtime, emulating native struct layout
// rules so raw record bytes can be decomposed into columns and recomposed
// into rows without copying through an intermediate representation.
package schema

// Handle is an opaque, stable identifier for a registered type. Handles are
// indices into the registry's type table; handles 0 through 10 are reserved
// for the primitive kinds and are fixed at registry construction.
type Handle uint32

// InvalidHandle is the distinguished sentinel for "no type".
const InvalidHandle = ^Handle(0)

// Reserved primitive handles, valid on every registry.
const (
	U64 Handle = iota
	U32
	U16
	U8
	I64
	I32
	I16
	I8
	F64
	F32
	Bool

	// NumPrimitives is the number of reserved primitive handles.
	NumPrimitives
)

// Kind discriminates primitive kinds from composite types.
type Kind uint8

// Type kinds, mirroring the reserved handle order.
const (
	KindU64 Kind = iota
	KindU32
	KindU16
	KindU8
	KindI64
	KindI32
	KindI16
	KindI8
	KindF64
	KindF32
	KindBool
	KindStruct
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindU64:
		return "u64"
	case KindU32:
		return "u32"
	case KindU16:
		return "u16"
	case KindU8:
		return "u8"
	case KindI64:
		return "i64"
	case KindI32:
		return "i32"
	case KindI16:
		return "i16"
	case KindI8:
		return "i8"
	case KindF64:
		return "f64"
	case KindF32:
		return "f32"
	case KindBool:
		return "bool"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Meta describes one registered type. For structs, fieldsOff and fieldsLen
// locate the type's fields in the registry's global field table; the range
// is never mutated after registration.
type Meta struct {
	Size      uint32
	Alignment uint32
	Kind      Kind

	fieldsOff uint32
	fieldsLen uint32
}

// Field is one member of a registered struct type. ByteOffset is the
// field's offset within the parent struct and is fixed for the lifetime of
// the parent's handle.
type Field struct {
	Type       Handle
	ByteOffset uint32
	Name       string
}

// FieldSpec names one field of a struct being registered. Type must be a
// handle that already exists in the registry.
type FieldSpec struct {
	Name string
	Type Handle
}
