package lrmichael

import "github.com/ricleite/lrmichael/internal/pageprovider"

// mallocLarge handles a request too big for any size class: a
// single-block descriptor with heap == nil, immediately FULL.
func mallocLarge(size uintptr) uintptr {
	rounded := pageprovider.Ceil(size)

	desc := descAlloc()
	desc.heap = nil
	desc.blockSize = rounded
	desc.maxcount = 1

	sb, err := pageAlloc(rounded)
	if err != nil {
		descRetire(desc)
		return 0
	}
	desc.superblock = sb

	anc := anchor{avail: 0, count: 0, state: sbFull, tag: 0}
	desc.anchor.Store(anc.encode())

	registerDesc(desc)
	return desc.superblock
}

// mallocLargeAligned is the large-allocation path for PosixMemalign and
// its thin wrappers: overallocate by max(alignment, size)*2, align the
// returned pointer up, and — if alignment pushed the user pointer onto a
// different page than the region base — register that second page too,
// so a later Free(userPtr) resolves.
func mallocLargeAligned(alignment, size uintptr) uintptr {
	overSize := size
	if alignment > overSize {
		overSize = alignment
	}
	overSize *= 2

	base := mallocLarge(overSize)
	if base == 0 {
		return 0
	}

	aligned := alignUp(base, alignment)
	if pageOf(aligned) != pageOf(base) {
		desc := getDescriptorForPtr(base)
		setPageInfo(aligned, desc)
	}
	return aligned
}

// freeLarge unregisters a large allocation's page-map entries and returns
// its region to the page provider.
func freeLarge(desc *Descriptor, ptr uintptr) {
	superblock := desc.superblock
	blockSize := desc.blockSize

	unregisterDesc(desc)
	if ptr != superblock {
		clearPageInfo(ptr)
	}

	pageFree(superblock, blockSize)
	// A large descriptor can never be on any partial list, so it's
	// immediately safe to reuse.
	descRetire(desc)
}

// alignUp rounds addr up to the next multiple of alignment, which must be
// a power of two (checked by callers in api.go).
func alignUp(addr, alignment uintptr) uintptr {
	return (addr + alignment - 1) &^ (alignment - 1)
}
