package lrmichael

import "errors"

// These are the only errors this package originates itself;
// pageprovider.ErrOutOfMemory is wrapped into ErrOutOfMemory rather than
// exposed directly, so callers never need to import internal packages to
// check allocator errors.
var (
	// ErrOutOfMemory means the page provider could not satisfy a request.
	ErrOutOfMemory = errors.New("lrmichael: out of memory")

	// ErrInvalidArgument is returned by PosixMemalign for an alignment
	// that is not a power of two or not a multiple of the pointer size.
	// AlignedAlloc, Memalign and Calloc report invalid arguments (including
	// a count*size overflow in Calloc) as a nil return instead.
	ErrInvalidArgument = errors.New("lrmichael: invalid argument")
)
