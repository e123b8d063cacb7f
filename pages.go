package lrmichael

import (
	"errors"

	"github.com/ricleite/lrmichael/internal/pageprovider"
)

// pageAlloc and pageFree are the root package's narrow view of the page
// provider, wrapping internal/pageprovider's error into this package's own
// ErrOutOfMemory so callers never need to import an internal package to
// check it.
func pageAlloc(nBytes uintptr) (uintptr, error) {
	addr, err := pageprovider.Alloc(nBytes)
	if err != nil {
		return 0, errors.Join(ErrOutOfMemory, err)
	}
	return addr, nil
}

func pageFree(addr uintptr, nBytes uintptr) {
	pageprovider.Free(addr, nBytes)
}
