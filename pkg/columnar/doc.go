// Package columnar implements the columnar table store for strata.
//
// Records of a registered struct type are decomposed on insert: each field's
// bytes land in that field's own append-only Column, and queries recompose
// full rows from the columns using the layout the schema registry computed.
// One Table exists per struct type; the Store owns the tables and creates
// them lazily on first insert.
//
// The package performs no internal locking. Callers that share a Store
// across goroutines must serialize access externally.
//
// Example:
//
//	reg := schema.NewRegistry(logger)
//	vec3, _ := reg.RegisterStruct([]schema.FieldSpec{
//	    {Name: "x", Type: schema.F64},
//	    {Name: "y", Type: schema.F64},
//	    {Name: "z", Type: schema.F64},
//	})
//
//	store := columnar.NewStore(reg, columnar.WithLogger(logger))
//
//	rec, _ := columnar.NewRecord(reg, vec3)
//	rec.SetF64(0, 1.0)
//	rec.SetF64(1, 1.0)
//	rec.SetF64(2, 1.0)
//	_ = store.Insert(rec.Bytes(), vec3)
//
//	rows, n, _ := store.QueryAll(vec3)
package columnar
