//go:build linux || darwin || freebsd

package pageprovider

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func init() {
	if ps := unix.Getpagesize(); ps > 0 {
		pageSize = uintptr(ps)
	}
}

// mmapAlloc anonymously maps a fresh, zero-filled region. The kernel
// guarantees page-alignment for MAP_ANON mappings.
func mmapAlloc(nBytes uintptr) (uintptr, error) {
	b, err := unix.Mmap(-1, 0, int(nBytes), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

func mmapFree(addr uintptr, nBytes uintptr) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), nBytes)
	_ = unix.Munmap(b)
}
