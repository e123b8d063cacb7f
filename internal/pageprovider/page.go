// Package pageprovider is the OS-facing page provider external
// collaborator: it supplies and reclaims page-multiple regions and knows
// nothing about size classes, descriptors, or the superblock protocol.
package pageprovider

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned when the OS cannot satisfy a page request.
var ErrOutOfMemory = errors.New("pageprovider: out of memory")

// pageSize is the platform page size used to round requests; page_unix.go
// and page_windows.go may adjust it at init if the host reports otherwise.
var pageSize uintptr = 4096

// PageSize returns the page size pages are rounded to.
func PageSize() uintptr {
	return pageSize
}

// Ceil rounds n up to the next page multiple.
func Ceil(n uintptr) uintptr {
	ps := pageSize
	return (n + ps - 1) / ps * ps
}

// Alloc reserves a zero-filled, page-aligned region of at least nBytes,
// rounded up to a page multiple. It returns ErrOutOfMemory (wrapped with
// the OS error) if the underlying mapping call fails.
func Alloc(nBytes uintptr) (uintptr, error) {
	addr, err := mmapAlloc(Ceil(nBytes))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	return addr, nil
}

// Free returns a region previously obtained from Alloc back to the OS.
// nBytes must be the same (pre-rounding) size passed to Alloc.
func Free(addr uintptr, nBytes uintptr) {
	mmapFree(addr, Ceil(nBytes))
}
