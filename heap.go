package lrmichael

import (
	"sync/atomic"

	"github.com/ricleite/lrmichael/internal/sizeclass"
)

// activeSlot is the indirection node standing in for a tagged
// ActiveDescriptor pointer: a superblock descriptor paired with the
// number of further blocks (credits) that may be handed out from it
// without re-reading its anchor.
type activeSlot struct {
	desc    *Descriptor
	credits uint32
}

// ProcHeap is one instance per size class: an active superblock pointer
// plus a lock-free stack of partial superblocks.
type ProcHeap struct {
	active      atomic.Pointer[activeSlot]
	partialHead atomic.Pointer[descNode]
	sizeclass   sizeclass.Class
	classIdx    int
}

// listPushPartial pushes desc onto heap's partial stack.
func listPushPartial(desc *Descriptor) {
	heap := desc.heap
	for {
		oldHead := heap.partialHead.Load()
		desc.nextPartial.Store(oldHead)

		var counter uint64
		if oldHead != nil {
			counter = oldHead.counter + 1
		}
		newHead := &descNode{desc: desc, counter: counter}

		if heap.partialHead.CompareAndSwap(oldHead, newHead) {
			return
		}
	}
}

// listPopPartial pops and returns a descriptor from heap's partial stack,
// or nil if it's empty.
func listPopPartial(heap *ProcHeap) *Descriptor {
	for {
		oldHead := heap.partialHead.Load()
		if oldHead == nil {
			return nil
		}
		newHead := oldHead.desc.nextPartial.Load()
		if heap.partialHead.CompareAndSwap(oldHead, newHead) {
			return oldHead.desc
		}
	}
}

// heapPushPartial and heapPopPartial are the named entry points into the
// partial list that alloc.go/free.go call, kept as their own functions
// rather than calling listPush/PopPartial directly: proactive removal of
// an arbitrary empty descriptor is deliberately not implemented here, and
// that's a property of this boundary, not of the underlying stack.
func heapPushPartial(desc *Descriptor) {
	listPushPartial(desc)
}

func heapPopPartial(heap *ProcHeap) *Descriptor {
	return listPopPartial(heap)
}

// makeActive packs desc and credits into the indirection node that stands
// in for a tagged ActiveDescriptor* (see descriptor.go's descNode doc
// comment for why this indirection exists).
func makeActive(desc *Descriptor, credits uint32) *activeSlot {
	return &activeSlot{desc: desc, credits: credits}
}
