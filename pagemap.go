package lrmichael

import "sync"

// pageMap is the process-wide page→descriptor lookup: a sparse
// page-address -> Descriptor* table. sync.Map is the idiomatic fit for
// this access pattern — many writers and many readers touching disjoint
// keys, with reads vastly outnumbering writes once a superblock is in
// steady-state use.
var pageMap sync.Map // uintptr (page-aligned addr) -> *Descriptor

func pageMask() uintptr {
	return Page - 1
}

// pageOf masks off the page offset, keying the map by the page containing
// addr.
func pageOf(addr uintptr) uintptr {
	return addr &^ pageMask()
}

// setPageInfo publishes desc as the owner of the page containing addr.
func setPageInfo(addr uintptr, desc *Descriptor) {
	pageMap.Store(pageOf(addr), desc)
}

// clearPageInfo removes the page containing addr from the map.
func clearPageInfo(addr uintptr) {
	pageMap.Delete(pageOf(addr))
}

// getPageInfo resolves the descriptor owning the page containing addr, or
// nil if addr isn't currently backed by any live superblock.
func getPageInfo(addr uintptr) *Descriptor {
	v, ok := pageMap.Load(pageOf(addr))
	if !ok {
		return nil
	}
	return v.(*Descriptor)
}

// registerDesc publishes every page of desc's superblock into the page
// map. For small-class superblocks that's every page in
// [sb, sb+sbSize); large allocations register only their first page (see
// large.go, which calls setPageInfo directly since it also needs to
// register a second, non-adjacent page for aligned allocations).
//
// Must be called before the superblock is made reachable from a ProcHeap:
// a concurrent free() must never observe a live pointer whose page isn't
// registered yet.
func registerDesc(desc *Descriptor) {
	if desc.heap == nil {
		// Large allocation: only the first page is registered here;
		// large.go registers the aligned user pointer's page itself when
		// it differs from the first.
		setPageInfo(desc.superblock, desc)
		return
	}
	sbSize := desc.heap.sizeclass.SBSize
	for off := uintptr(0); off < sbSize; off += Page {
		setPageInfo(desc.superblock+off, desc)
	}
}

// unregisterDesc removes every page of a superblock from the page map,
// right before the superblock is returned to the page provider.
func unregisterDesc(desc *Descriptor) {
	if desc.heap == nil {
		clearPageInfo(desc.superblock)
		return
	}
	sbSize := desc.heap.sizeclass.SBSize
	for off := uintptr(0); off < sbSize; off += Page {
		clearPageInfo(desc.superblock + off)
	}
}

// getDescriptorForPtr resolves the descriptor owning the block at ptr, or
// nil for a pointer this allocator never handed out.
func getDescriptorForPtr(ptr uintptr) *Descriptor {
	return getPageInfo(ptr)
}
