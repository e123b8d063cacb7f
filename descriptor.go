package lrmichael

import "sync/atomic"

// descNode is the immutable indirection node standing in for a literal
// hardware {ptr, counter} DCAS: rather than compare-and-swap a tagged
// pointer in place, every push allocates a fresh node and CAS's the stack
// head to point at it, so the head can never revisit an address it held
// before even once the underlying Descriptor is recycled. It backs the
// descriptor pool's free list, every heap's partial-descriptor stack, and
// the per-descriptor nextFree/nextPartial links used to thread those
// stacks.
type descNode struct {
	desc    *Descriptor
	counter uint64
}

// Descriptor is the per-superblock metadata node. Once allocated, a
// Descriptor is never returned to the OS — it is only ever retired to the
// descriptor pool and recycled by descAlloc. Readers that hold a stale
// *Descriptor (e.g. racing with a concurrent free) can always safely load
// its fields; nothing here is ever unmapped.
type Descriptor struct {
	anchor atomic.Uint64 // packed anchor word, see anchor.go

	nextFree    atomic.Pointer[descNode] // descriptor pool linkage
	nextPartial atomic.Pointer[descNode] // per-heap partial stack linkage

	superblock uintptr   // base address of the backing region
	heap       *ProcHeap // owning heap, nil for a large allocation
	blockSize  uintptr
	maxcount   uint32

	// pad rounds sizeof(Descriptor) up to a 64-byte (Cacheline) multiple —
	// 52 bytes of fields above, padded to 64 — so consecutive pool-carved
	// descriptors fall on distinct cache lines instead of straddling them.
	_ [12]byte
}

func (d *Descriptor) loadAnchor() anchor {
	return decodeAnchor(d.anchor.Load())
}

// casAnchor attempts to replace the current anchor word with next's
// encoding, succeeding only if the word is still old's encoding.
func (d *Descriptor) casAnchor(old, next anchor) bool {
	return d.anchor.CompareAndSwap(old.encode(), next.encode())
}
