package columnar

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/arena"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Store is the top-level columnar store: it maps struct type handles to
// tables, creating each table lazily on the first insert for its handle.
// Once created, a table lives for the remaining lifetime of the store and
// its row count never decreases.
//
// The store borrows the registry; the registry must outlive the store.
type Store struct {
	registry    *schema.Registry
	tables      map[schema.Handle]*Table
	alloc       arena.Allocator
	logger      *zap.Logger
	initialRows int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithAllocator injects the allocator backing column buffers. Defaults to
// the Go heap; pass an *arena.Arena to back columns with one contiguous,
// optionally huge-page-backed region.
func WithAllocator(alloc arena.Allocator) Option {
	return func(s *Store) {
		s.alloc = alloc
	}
}

// WithInitialCapacity pre-reserves room for the given number of rows in
// every column of every table the store creates.
func WithInitialCapacity(rows int) Option {
	return func(s *Store) {
		s.initialRows = rows
	}
}

// NewStore creates an empty store over the given registry.
func NewStore(registry *schema.Registry, opts ...Option) *Store {
	s := &Store{
		registry: registry,
		tables:   make(map[schema.Handle]*Table),
		alloc:    arena.Heap{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert routes one record to the table for handle, creating the table on
// first use. handle must name a registered struct type and the record's
// layout must match the registry's layout for it.
func (s *Store) Insert(record []byte, handle schema.Handle) error {
	table, err := s.getOrCreateTable(handle)
	if err != nil {
		return err
	}
	return table.Insert(record)
}

// QueryAllInto recomposes every row stored for handle into dst and returns
// the row count. A handle that has seen no insert yet is an empty result,
// not an error: the query returns 0 rows.
func (s *Store) QueryAllInto(handle schema.Handle, dst []byte) (int, error) {
	table, ok := s.tables[handle]
	if !ok {
		if _, err := s.structMeta(handle); err != nil {
			return 0, err
		}
		s.logger.Debug("query on handle with no table, returning empty result",
			zap.Uint32("handle", uint32(handle)))
		return 0, nil
	}
	return table.QueryAllInto(dst)
}

// QueryAll is QueryAllInto with a destination buffer sized to fit. It
// returns the records buffer, the row count, and a nil buffer for an empty
// result.
func (s *Store) QueryAll(handle schema.Handle) ([]byte, int, error) {
	table, ok := s.tables[handle]
	if !ok {
		if _, err := s.structMeta(handle); err != nil {
			return nil, 0, err
		}
		return nil, 0, nil
	}

	rows := table.NumRows()
	if rows == 0 {
		return nil, 0, nil
	}

	dst := make([]byte, rows*table.StructSize())
	n, err := table.QueryAllInto(dst)
	if err != nil {
		return nil, 0, err
	}
	return dst, n, nil
}

// NumRows returns the number of rows stored for handle, 0 when no table
// exists yet.
func (s *Store) NumRows(handle schema.Handle) int {
	table, ok := s.tables[handle]
	if !ok {
		return 0
	}
	return table.NumRows()
}

// NumTables returns the number of tables the store has created.
func (s *Store) NumTables() int {
	return len(s.tables)
}

// MemoryUsage returns the bytes reserved across all tables.
func (s *Store) MemoryUsage() int64 {
	var total int64
	for _, table := range s.tables {
		total += table.MemoryUsage()
	}
	return total
}

// structMeta validates that handle names a registered struct type.
func (s *Store) structMeta(handle schema.Handle) (schema.Meta, error) {
	meta, err := s.registry.Lookup(handle)
	if err != nil {
		return schema.Meta{}, err
	}
	if meta.Kind != schema.KindStruct {
		return schema.Meta{}, errors.Newf(errors.ErrorTypeValidation, "handle %d is %s, the store only holds struct types", handle, meta.Kind)
	}
	return meta, nil
}

// getOrCreateTable returns the table for handle, constructing it from the
// registry's field layout on first use. At most one table ever exists per
// handle.
func (s *Store) getOrCreateTable(handle schema.Handle) (*Table, error) {
	if table, ok := s.tables[handle]; ok {
		return table, nil
	}

	if _, err := s.structMeta(handle); err != nil {
		return nil, err
	}

	table, err := NewTable(s.registry, handle, s.alloc, s.logger)
	if err != nil {
		return nil, err
	}

	if s.initialRows > 0 {
		for _, col := range table.Columns() {
			if err := col.EnsureCapacity(s.initialRows); err != nil {
				return nil, err
			}
		}
	}

	s.tables[handle] = table
	s.logger.Debug("table created",
		zap.Uint32("handle", uint32(handle)),
		zap.Int("columns", len(table.Columns())),
		zap.Int("struct_size", table.StructSize()))

	return table, nil
}
