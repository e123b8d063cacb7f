package lrmichael

import "unsafe"

// readNextLink and writeNextLink access the intrusive free-list link
// stored in the first 8 bytes of a free block: the index, within its
// superblock, of the next free block. This is the one place the allocator
// writes into memory the caller previously owned, which is only safe
// because the caller has already returned the block via Free.
func readNextLink(ptr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(ptr))
}

func writeNextLink(ptr uintptr, next uint64) {
	*(*uint64)(unsafe.Pointer(ptr)) = next
}
