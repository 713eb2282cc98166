//go:build linux
// +build linux

package arena

import (
	"math/bits"

	"golang.org/x/sys/unix"
)

// allocPages maps an anonymous region of the given capacity. It first asks
// for MAP_HUGETLB pages of pageSize bytes; the kernel rejects that unless
// huge pages of that size are reserved, in which case we fall back to
// normal pages.
func allocPages(capacity, pageSize int) (buf []byte, huge, mapped bool, err error) {
	if pageSize == Huge2MB || pageSize == Huge1GB {
		hugeFlag := bits.TrailingZeros(uint(pageSize)) << unix.MAP_HUGE_SHIFT
		buf, err = unix.Mmap(-1, 0, capacity,
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB|hugeFlag)
		if err == nil {
			return buf, true, true, nil
		}
	}

	buf, err = unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, false, false, err
	}
	return buf, false, true, nil
}

// freePages unmaps a region returned by allocPages.
func freePages(buf []byte) error {
	return unix.Munmap(buf)
}
