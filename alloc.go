package lrmichael

import (
	"sync"

	"github.com/ricleite/lrmichael/internal/sizeclass"
)

// Package-wide size-class table and per-class heaps. Index 0 of heaps is
// unused padding to match szTable's 1-based indexing: class index 0 means
// "too large, use the large path".
var (
	initOnce sync.Once
	szTable  *sizeclass.Table
	heaps    []*ProcHeap
)

// ensureInit performs one-time size-class/heap-table initialization,
// gated by sync.Once so concurrent first callers can't race past a plain
// boolean flag and observe a half-built heap table.
func ensureInit() {
	initOnce.Do(func() {
		szTable = sizeclass.New()
		heaps = make([]*ProcHeap, szTable.NumClasses()+1)
		for i := 1; i <= szTable.NumClasses(); i++ {
			heaps[i] = &ProcHeap{sizeclass: szTable.Class(i), classIdx: i}
		}
	})
}

// getProcHeap returns the heap for size, or nil if size doesn't fit any
// class and must take the large-allocation path.
func getProcHeap(size uintptr) *ProcHeap {
	ensureInit()
	idx := szTable.ClassFor(size)
	if idx == 0 {
		return nil
	}
	return heaps[idx]
}

// mallocSmall drives the three-source allocation pipeline for a
// size-classed request: active, then partial, then a fresh superblock,
// retried until one of them produces a block.
func mallocSmall(heap *ProcHeap) uintptr {
	for {
		if ptr := mallocFromActive(heap); ptr != 0 {
			return ptr
		}
		if ptr := mallocFromPartial(heap); ptr != 0 {
			return ptr
		}
		if ptr := mallocFromNewSB(heap); ptr != 0 {
			return ptr
		}
	}
}

// mallocFromActive reserves one credit against heap's active superblock
// and pops a block from its free list.
func mallocFromActive(heap *ProcHeap) uintptr {
	oldActive := heap.active.Load()
	if oldActive == nil {
		return 0
	}

	var desc *Descriptor
	var oldCredits uint32
	for {
		if oldActive == nil {
			return 0
		}
		desc = oldActive.desc
		oldCredits = oldActive.credits

		var newActive *activeSlot
		if oldCredits > 0 {
			newActive = makeActive(desc, oldCredits-1)
		}

		if heap.active.CompareAndSwap(oldActive, newActive) {
			break
		}
		oldActive = heap.active.Load()
	}

	// We now own one reservation against desc: it cannot transition to
	// EMPTY until we return a block.
	oldAnchor := desc.loadAnchor()
	var newAnc anchor
	var ptr uintptr
	var credits uint32
	for {
		blockSize := desc.blockSize
		ptr = desc.superblock + uintptr(oldAnchor.avail)*blockSize
		next := readNextLink(ptr)

		newAnc = oldAnchor
		newAnc.avail = uint32(next)
		newAnc.tag = oldAnchor.bumpTag()

		credits = 0
		if oldCredits == 0 {
			if oldAnchor.count == 0 {
				newAnc.state = sbFull
			} else {
				credits = min(oldAnchor.count, uint32(CreditsMax))
				newAnc.count -= credits
			}
		}

		if desc.casAnchor(oldAnchor, newAnc) {
			break
		}
		oldAnchor = desc.loadAnchor()
	}

	// While credits == 0, active stays nil: no allocation can come from an
	// active block until something refills it.
	if credits > 0 {
		updateActive(heap, desc, credits)
	}
	return ptr
}

// updateActive tries to install desc as heap's active superblock with
// credits-1 remaining credits (the allocator keeps the last one for
// itself). If another thread already installed a different active
// superblock, the credits are handed back to the anchor and desc is
// pushed onto the partial stack instead.
func updateActive(heap *ProcHeap, desc *Descriptor, credits uint32) {
	newActive := makeActive(desc, credits-1)
	if heap.active.CompareAndSwap(nil, newActive) {
		return
	}

	oldAnchor := desc.loadAnchor()
	var newAnc anchor
	for {
		newAnc = oldAnchor
		newAnc.count += credits
		newAnc.state = sbPartial
		if desc.casAnchor(oldAnchor, newAnc) {
			break
		}
		oldAnchor = desc.loadAnchor()
	}

	heapPushPartial(desc)
}

// mallocFromPartial pops a descriptor off heap's partial stack and
// reserves a block from it.
func mallocFromPartial(heap *ProcHeap) uintptr {
	desc := heapPopPartial(heap)
	if desc == nil {
		return 0
	}

	oldAnchor := desc.loadAnchor()
	var newAnc anchor
	var credits uint32
	for {
		if oldAnchor.state == sbEmpty {
			descRetire(desc)
			return mallocFromPartial(heap)
		}

		// oldAnchor must be PARTIAL: a descriptor is pushed onto the
		// partial stack only right after its anchor becomes PARTIAL
		// (free's FULL->PARTIAL, or updateActive handing credits back),
		// so it can't be FULL or ACTIVE here.
		credits = min(oldAnchor.count-1, uint32(CreditsMax))
		newAnc = oldAnchor
		newAnc.count = oldAnchor.count - 1 - credits
		if credits > 0 {
			newAnc.state = sbActive
		} else {
			newAnc.state = sbFull
		}

		if desc.casAnchor(oldAnchor, newAnc) {
			break
		}
		oldAnchor = desc.loadAnchor()
	}

	// Pop the reserved block. Concurrent frees may push onto avail, so
	// this is a separate CAS loop from the reservation above.
	var ptr uintptr
	oldAnchor = desc.loadAnchor()
	for {
		idx := oldAnchor.avail
		ptr = desc.superblock + uintptr(idx)*desc.blockSize
		next := readNextLink(ptr)

		newAnc = oldAnchor
		newAnc.avail = uint32(next)
		newAnc.tag = oldAnchor.bumpTag()

		if desc.casAnchor(oldAnchor, newAnc) {
			break
		}
		oldAnchor = desc.loadAnchor()
	}

	if credits > 0 {
		updateActive(heap, desc, credits)
	}
	return ptr
}

// mallocFromNewSB allocates a fresh superblock for heap, installs it as
// active if no other thread races to do the same, and returns its first
// block.
func mallocFromNewSB(heap *ProcHeap) uintptr {
	sc := heap.sizeclass

	desc := descAlloc()
	desc.heap = heap
	desc.blockSize = sc.BlockSize
	desc.maxcount = sc.BlocksPerSB

	sb, err := pageAlloc(sc.SBSize)
	if err != nil {
		descRetire(desc)
		return 0
	}
	desc.superblock = sb

	// Block 0 is handed to the caller; blocks 1..maxcount-1 are an
	// intrusive index-linked free list.
	for idx := uintptr(1); idx < uintptr(desc.maxcount)-1; idx++ {
		writeNextLink(desc.superblock+idx*desc.blockSize, uint64(idx+1))
	}

	credits := min(desc.maxcount-1, uint32(CreditsMax))
	newActive := makeActive(desc, credits-1)

	anc := anchor{
		avail: 1,
		count: desc.maxcount - 1 - credits,
		state: sbActive,
		tag:   0,
	}
	desc.anchor.Store(anc.encode())

	// Must precede the active-pointer install: a concurrent free() must
	// never observe a live pointer whose page isn't registered yet.
	registerDesc(desc)

	oldActive := heap.active.Load()
	if oldActive != nil || !heap.active.CompareAndSwap(oldActive, newActive) {
		// Lost the race to install as active; unwind everything.
		unregisterDesc(desc)
		pageFree(desc.superblock, sc.SBSize)
		descRetire(desc)
		return 0
	}

	return desc.superblock
}
