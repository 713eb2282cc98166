//go:build darwin
// +build darwin

package arena

import (
	"golang.org/x/sys/unix"
)

// allocPages maps an anonymous region. Darwin has no MAP_HUGETLB
// equivalent, so the mapping always uses normal pages.
func allocPages(capacity, pageSize int) (buf []byte, huge, mapped bool, err error) {
	buf, err = unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, false, false, err
	}
	return buf, false, true, nil
}

// freePages unmaps a region returned by allocPages.
func freePages(buf []byte) error {
	return unix.Munmap(buf)
}
