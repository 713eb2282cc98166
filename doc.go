// Package strata provides an in-memory columnar store for composite types
// registered at runtime.
//
// Each registered struct type gets one table; each field of the struct gets
// its own contiguous append-only column. The schema registry computes the
// type's binary layout (size, alignment, field offsets) the way a native
// compiler would, so raw record bytes can be split into columns on insert
// and recomposed into rows on query without any per-value conversion.
//
// # Architecture
//
// The repository is organized as focused packages under pkg/:
//
//   - schema: the runtime type registry and layout computation
//   - columnar: Column, Table, and the top-level Store, plus Record/RowView
//     for building and reading raw records safely
//   - arena: bump allocation over (optionally huge-page-backed) mappings,
//     injectable into the store as the column buffer allocator
//   - errors, logger, config, pool, jsonutil: shared infrastructure
//
// # Quick Start
//
//	reg := schema.NewRegistry(logger.Get())
//	vec3, err := reg.RegisterStruct([]schema.FieldSpec{
//	    {Name: "x", Type: schema.F64},
//	    {Name: "y", Type: schema.F64},
//	    {Name: "z", Type: schema.F64},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := columnar.NewStore(reg)
//
//	rec, _ := columnar.NewRecord(reg, vec3)
//	rec.SetF64(0, 1.0)
//	rec.SetF64(1, 1.0)
//	rec.SetF64(2, 1.0)
//	if err := store.Insert(rec.Bytes(), vec3); err != nil {
//	    log.Fatal(err)
//	}
//
//	rows, n, err := store.QueryAll(vec3)
//
// The store is single-threaded: no operation blocks, performs I/O, or takes
// a lock. Callers sharing a store across goroutines must serialize access
// externally.
package strata
