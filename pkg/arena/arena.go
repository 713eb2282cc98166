// Package arena provides bump allocation over large contiguous memory
// regions, optionally backed by huge pages to reduce allocation count and
// TLB pressure for large column buffers.
//
// The package exposes the Allocator interface as the single capability the
// columnar store consumes; Arena and Heap are the two implementations.
// Arena is not safe for concurrent use.
package arena

import (
	"math/bits"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/errors"
)

// Supported page sizes for huge-page-backed arenas.
const (
	Huge2MB = 2 << 20
	Huge1GB = 1 << 30
)

// DefaultAlign is the alignment used when callers pass align <= 0.
const DefaultAlign = 64

// Allocator hands out contiguous byte regions. Implementations return a
// recoverable error when the request cannot be satisfied; they never panic
// on exhaustion.
type Allocator interface {
	// Alloc returns a zeroed region of exactly size bytes whose start is
	// aligned to align (a power of two). align <= 0 selects DefaultAlign.
	Alloc(size, align int) ([]byte, error)
}

// Heap is the default Allocator backed by the Go heap. It satisfies every
// request with a fresh slice and relies on the runtime's natural alignment,
// which is sufficient for byte-level column buffers.
type Heap struct{}

// Alloc implements Allocator.
func (Heap) Alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative allocation size %d", size)
	}
	return make([]byte, size), nil
}

// Arena is a fixed-capacity bump allocator over an anonymous memory
// mapping. On Linux it first attempts a MAP_HUGETLB mapping for the
// configured page size and falls back to normal pages; other platforms
// always use normal pages. Alloc never reuses freed memory; Reset reclaims
// the whole region at once.
type Arena struct {
	buf      []byte
	off      int
	pageSize int
	huge     bool
	mapped   bool
	logger   *zap.Logger
}

// New creates an arena spanning numPages pages of pageSize bytes each.
// pageSize must be a power of two; Huge2MB and Huge1GB select the
// corresponding huge page size on Linux.
func New(numPages, pageSize int, logger *zap.Logger) (*Arena, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if numPages <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "arena needs at least one page, got %d", numPages)
	}
	if pageSize <= 0 || bits.OnesCount(uint(pageSize)) != 1 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "arena page size must be a power of two, got %d", pageSize)
	}

	capacity := numPages * pageSize
	buf, huge, mapped, err := allocPages(capacity, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeResource, "failed to map arena region").
			WithDetail("capacity", capacity)
	}

	logger.Debug("arena created",
		zap.Int("capacity", capacity),
		zap.Int("page_size", pageSize),
		zap.Bool("huge_pages", huge))

	return &Arena{
		buf:      buf,
		pageSize: pageSize,
		huge:     huge,
		mapped:   mapped,
		logger:   logger,
	}, nil
}

// Alloc implements Allocator. It bumps the cursor to the requested
// alignment and fails with a resource error when the region is exhausted.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative allocation size %d", size)
	}
	if align <= 0 {
		align = DefaultAlign
	}
	if bits.OnesCount(uint(align)) != 1 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "alignment must be a power of two, got %d", align)
	}

	aligned := alignUp(a.off, align)
	if aligned+size > len(a.buf) {
		return nil, errors.New(errors.ErrorTypeResource, "arena exhausted").
			WithDetail("requested", size).
			WithDetail("available", a.Available())
	}

	a.off = aligned + size
	return a.buf[aligned:a.off:a.off], nil
}

// Reset rewinds the cursor to the start of the region and zeroes the bytes
// handed out so far, keeping the Alloc contract intact for reused memory.
// Previously returned slices must no longer be used.
func (a *Arena) Reset() {
	clear(a.buf[:a.off])
	a.off = 0
}

// Prefault touches every page so page faults are paid up front rather than
// on the insert path.
func (a *Arena) Prefault() {
	for i := 0; i < len(a.buf); i += a.pageSize {
		a.buf[i] = 0
	}
}

// Used returns the number of bytes handed out, including alignment padding.
func (a *Arena) Used() int {
	return a.off
}

// Available returns the number of bytes remaining.
func (a *Arena) Available() int {
	return len(a.buf) - a.off
}

// Cap returns the total capacity of the region.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// UsingHugePages reports whether the region is backed by huge pages.
func (a *Arena) UsingHugePages() bool {
	return a.huge
}

// Close unmaps the region. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.buf == nil {
		return nil
	}
	buf := a.buf
	a.buf = nil
	a.off = 0
	if !a.mapped {
		return nil
	}
	if err := freePages(buf); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to unmap arena region")
	}
	return nil
}

// alignUp rounds value up to the next multiple of align. align must be a
// power of two.
func alignUp(value, align int) int {
	return (value + align - 1) &^ (align - 1)
}
