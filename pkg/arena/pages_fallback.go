//go:build !linux && !darwin
// +build !linux,!darwin

package arena

// allocPages falls back to a heap slice on platforms without anonymous
// mmap support in this package.
func allocPages(capacity, pageSize int) (buf []byte, huge, mapped bool, err error) {
	return make([]byte, capacity), false, false, nil
}

// freePages is a no-op for heap-backed regions.
func freePages(buf []byte) error {
	return nil
}
