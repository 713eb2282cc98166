package schema

import (
	"github.com/ajitpratap0/strata/pkg/jsonutil"
)

// TypeDescription is a JSON-marshalable view of one registered type's
// layout, intended for CLI output and debugging.
type TypeDescription struct {
	Handle    Handle             `json:"handle"`
	Kind      string             `json:"kind"`
	Size      uint32             `json:"size"`
	Alignment uint32             `json:"alignment"`
	Fields    []FieldDescription `json:"fields,omitempty"`
}

// FieldDescription describes one field within a struct layout.
type FieldDescription struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Offset    uint32 `json:"offset"`
	Size      uint32 `json:"size"`
	Alignment uint32 `json:"alignment"`
}

// Describe returns the layout description of the type behind handle.
func (r *Registry) Describe(handle Handle) (TypeDescription, error) {
	meta, err := r.Lookup(handle)
	if err != nil {
		return TypeDescription{}, err
	}

	desc := TypeDescription{
		Handle:    handle,
		Kind:      meta.Kind.String(),
		Size:      meta.Size,
		Alignment: meta.Alignment,
	}

	if meta.Kind == KindStruct {
		fields := r.FieldsOf(handle)
		desc.Fields = make([]FieldDescription, 0, len(fields))
		for _, f := range fields {
			fieldMeta := r.types[f.Type]
			desc.Fields = append(desc.Fields, FieldDescription{
				Name:      f.Name,
				Type:      fieldMeta.Kind.String(),
				Offset:    f.ByteOffset,
				Size:      fieldMeta.Size,
				Alignment: fieldMeta.Alignment,
			})
		}
	}

	return desc, nil
}

// JSON renders the description as indented JSON.
func (d TypeDescription) JSON() ([]byte, error) {
	return jsonutil.MarshalIndent(d, "", "  ")
}
