// Package lrmichael implements the Michael non-blocking memory allocator:
// a lock-free, size-segregated superblock allocator built on CAS loops and
// ABA-safe indirection nodes instead of hardware DCAS.
package lrmichael

import (
	"math/bits"
	"unsafe"
)

// Malloc reserves size bytes and returns an unsafe.Pointer to them, or nil
// if the request could not be satisfied. Contents are uninitialized.
func Malloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	heap := getProcHeap(size)
	var ptr uintptr
	if heap == nil {
		ptr = mallocLarge(size)
	} else {
		ptr = mallocSmall(heap)
	}
	if ptr == 0 {
		return nil
	}
	return unsafe.Pointer(ptr)
}

// Free returns a pointer previously obtained from this package back to the
// allocator. Freeing nil is a no-op; freeing anything else is undefined
// behavior — debugAssert panics on it when built with -tags lrmichaeldebug,
// and is silently ignored otherwise.
func Free(ptr unsafe.Pointer) {
	free(uintptr(ptr))
}

// Calloc reserves space for count elements of elemSize bytes each, zeroed,
// returning nil if count*elemSize overflows uintptr.
func Calloc(count, elemSize uintptr) unsafe.Pointer {
	if count == 0 || elemSize == 0 {
		return Malloc(0)
	}

	carry, total := bits.Mul64(uint64(count), uint64(elemSize))
	if carry != 0 || uint64(uintptr(total)) != total {
		return nil
	}
	size := uintptr(total)

	ptr := Malloc(size)
	if ptr == nil {
		return nil
	}
	clearBytes(uintptr(ptr), size)
	return ptr
}

// Realloc resizes the allocation at ptr to size bytes, preserving the
// lesser of ptr's usable size and size. Realloc(nil, size) behaves like
// Malloc(size); Realloc(ptr, 0) behaves like Free(ptr). ptr is freed
// unconditionally once a copy is attempted — including when the new
// allocation fails, so a failed Realloc still releases the old block
// rather than leaking it.
func Realloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if ptr == nil {
		return Malloc(size)
	}
	if size == 0 {
		Free(ptr)
		return nil
	}

	oldSize := MallocUsableSize(ptr)
	newPtr := Malloc(size)
	if newPtr != nil {
		copySize := oldSize
		if size < copySize {
			copySize = size
		}
		copyBytes(uintptr(newPtr), uintptr(ptr), copySize)
	}
	Free(ptr)
	return newPtr
}

// MallocUsableSize returns the usable size of the block at ptr: the full
// block size of its size class, or the page-rounded size of its backing
// region for a large allocation. For an aligned large allocation that
// region is the over-allocated one, and its size is counted from the
// region base, not from ptr. Returns 0 for a foreign or nil pointer.
func MallocUsableSize(ptr unsafe.Pointer) uintptr {
	if ptr == nil {
		return 0
	}
	desc := getDescriptorForPtr(uintptr(ptr))
	if desc == nil {
		return 0
	}
	return desc.blockSize
}

// PosixMemalign reserves size bytes aligned to alignment, which must be a
// power of two and a multiple of unsafe.Sizeof(uintptr(0)), mirroring
// posix_memalign's contract. Returns ErrInvalidArgument if alignment fails
// that check, ErrOutOfMemory if the allocation itself fails.
func PosixMemalign(alignment, size uintptr) (unsafe.Pointer, error) {
	if alignment == 0 || alignment&(alignment-1) != 0 || alignment%unsafe.Sizeof(uintptr(0)) != 0 {
		return nil, ErrInvalidArgument
	}
	if size == 0 {
		return nil, nil
	}

	heap := getProcHeap(size)
	if heap != nil && alignment <= Page && alignment <= heap.sizeclass.BlockSize && heap.sizeclass.BlockSize%alignment == 0 {
		// Every superblock is page-aligned, so a size class only guarantees
		// block alignment up to Page; beyond that, block N's address offset
		// from the superblock base (N*BlockSize) isn't guaranteed aligned.
		// Within that bound, a BlockSize that's a multiple of alignment
		// makes every block in the class already aligned, avoiding the
		// large-path overallocation cost.
		ptr := mallocSmall(heap)
		if ptr == 0 {
			return nil, ErrOutOfMemory
		}
		return unsafe.Pointer(ptr), nil
	}

	ptr := mallocLargeAligned(alignment, size)
	if ptr == 0 {
		return nil, ErrOutOfMemory
	}
	return unsafe.Pointer(ptr), nil
}

// AlignedAlloc is the C11 aligned_alloc wrapper: size must be a multiple
// of alignment.
func AlignedAlloc(alignment, size uintptr) unsafe.Pointer {
	if size%alignment != 0 {
		return nil
	}
	ptr, err := PosixMemalign(alignment, size)
	if err != nil {
		return nil
	}
	return ptr
}

// Memalign allocates size bytes aligned to alignment (the glibc memalign
// wrapper, looser than PosixMemalign: no multiple-of-sizeof(uintptr) rule).
func Memalign(alignment, size uintptr) unsafe.Pointer {
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return nil
	}
	ptr := mallocLargeAligned(alignment, size)
	if ptr == 0 {
		return nil
	}
	return unsafe.Pointer(ptr)
}

// Valloc allocates size bytes aligned to the system page size.
func Valloc(size uintptr) unsafe.Pointer {
	return Memalign(Page, size)
}

// Pvalloc allocates and rounds size up to a page-size multiple, aligned to
// the system page size (the glibc pvalloc wrapper).
func Pvalloc(size uintptr) unsafe.Pointer {
	rounded := (size + Page - 1) &^ (Page - 1)
	return Valloc(rounded)
}

// clearBytes and copyBytes are Calloc/Realloc's only two touches of raw
// allocated memory outside the intrusive free-list link, kept as their own
// unsafe helpers so the rest of api.go reads as ordinary Go.
func clearBytes(ptr, n uintptr) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)
	for i := range b {
		b[i] = 0
	}
}

func copyBytes(dst, src, n uintptr) {
	d := unsafe.Slice((*byte)(unsafe.Pointer(dst)), n)
	s := unsafe.Slice((*byte)(unsafe.Pointer(src)), n)
	copy(d, s)
}
