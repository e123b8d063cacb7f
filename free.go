package lrmichael

// free resolves ptr to its owning descriptor and dispatches to the small
// or large free path.
func free(ptr uintptr) {
	if ptr == 0 {
		return
	}

	desc := getDescriptorForPtr(ptr)
	if desc == nil {
		// A foreign or double-freed pointer. Behavior is undefined by
		// contract; debugAssert panics in lrmichaeldebug builds and is a
		// silent no-op otherwise.
		debugAssert(false, "lrmichael: free of unregistered pointer")
		return
	}

	if desc.heap == nil {
		freeLarge(desc, ptr)
		return
	}
	freeSmall(desc, ptr)
}

// freeSmall pushes a block back onto its superblock's free list, walking
// the Anchor state machine, and retires the superblock if it just became
// empty.
func freeSmall(desc *Descriptor, ptr uintptr) {
	heap := desc.heap
	superblock := desc.superblock
	blockSize := desc.blockSize
	maxcount := desc.maxcount

	oldAnchor := desc.loadAnchor()
	var newAnc anchor
	for {
		idx := (ptr - superblock) / blockSize
		p := superblock + idx*blockSize
		writeNextLink(p, uint64(oldAnchor.avail))

		newAnc = oldAnchor
		newAnc.avail = uint32(idx)
		newAnc.tag = oldAnchor.bumpTag()

		// Don't downgrade ACTIVE to PARTIAL here: the active pointer
		// still references this superblock, and free() never touches
		// heap.active directly — only a later mallocFromActive call,
		// once credits run out, transitions it off ACTIVE.
		if oldAnchor.state == sbFull {
			newAnc.state = sbPartial
		}
		// count tracks free blocks not currently reserved via credits, so
		// this is the last outstanding block. Can't happen with ACTIVE:
		// its reserved credits keep count away from maxcount-1 until the
		// superblock stops being active.
		if oldAnchor.count == maxcount-1 {
			newAnc.state = sbEmpty
		} else {
			newAnc.count++
		}

		if desc.casAnchor(oldAnchor, newAnc) {
			break
		}
		oldAnchor = desc.loadAnchor()
	}

	if newAnc.state == sbEmpty {
		unregisterDesc(desc)
		pageFree(superblock, heap.sizeclass.SBSize)
		// desc is not retired here: it sits on (or is about to be pushed
		// onto) the partial stack, and mallocFromPartial retires it when it
		// pops it in the EMPTY state, instead of us searching for it here.
	} else if oldAnchor.state == sbFull {
		heapPushPartial(desc)
	}
}
