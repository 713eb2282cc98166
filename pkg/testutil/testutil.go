// Package testutil provides testing utilities for strata
package testutil

import (
	"encoding/binary"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/strata/pkg/schema"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// NewVec3Registry returns a registry with a {x,y,z f64} struct registered,
// the shape most integration tests exercise.
func NewVec3Registry(t *testing.T) (*schema.Registry, schema.Handle) {
	t.Helper()

	reg := schema.NewRegistry(TestLogger(t))
	handle, err := reg.RegisterStruct([]schema.FieldSpec{
		{Name: "x", Type: schema.F64},
		{Name: "y", Type: schema.F64},
		{Name: "z", Type: schema.F64},
	})
	if err != nil {
		t.Fatalf("failed to register vec3: %v", err)
	}
	return reg, handle
}

// MustRecord builds record bytes for a struct of f64 fields, writing
// values[i] to field i at its registered byte offset.
func MustRecord(t *testing.T, reg *schema.Registry, handle schema.Handle, values ...float64) []byte {
	t.Helper()

	fields := reg.FieldsOf(handle)
	if len(values) != len(fields) {
		t.Fatalf("got %d values for %d fields", len(values), len(fields))
	}

	buf := make([]byte, reg.SizeOf(handle))
	for i, v := range values {
		if kind := reg.KindOf(fields[i].Type); kind != schema.KindF64 {
			t.Fatalf("field %q is %s, MustRecord only fills f64 fields", fields[i].Name, kind)
		}
		binary.NativeEndian.PutUint64(buf[fields[i].ByteOffset:], math.Float64bits(v))
	}
	return buf
}
