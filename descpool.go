package lrmichael

import (
	"sync/atomic"
	"unsafe"
)

// descPoolHead is the global descriptor recycle list: a lock-free stack
// of retired Descriptors available for reuse. Descriptors are carved in
// fixed-size batches and, once allocated, are never returned to the OS —
// see descAllocFreshBlock.
var descPoolHead atomic.Pointer[descNode]

// descAlloc pops a descriptor from the pool, carving a fresh batch from
// the backing store if the pool is empty.
func descAlloc() *Descriptor {
	for {
		oldHead := descPoolHead.Load()
		if oldHead == nil {
			return descAllocFreshBlock()
		}
		newHead := oldHead.desc.nextFree.Load()
		if descPoolHead.CompareAndSwap(oldHead, newHead) {
			return oldHead.desc
		}
	}
}

// descRetire pushes desc back onto the pool.
func descRetire(desc *Descriptor) {
	for {
		oldHead := descPoolHead.Load()
		desc.nextFree.Store(oldHead)

		var counter uint64
		if oldHead != nil {
			counter = oldHead.counter + 1
		}
		newHead := &descNode{desc: desc, counter: counter}

		if descPoolHead.CompareAndSwap(oldHead, newHead) {
			return
		}
	}
}

// descAllocFreshBlock carves descriptorBlockSize() worth of Descriptors
// out of a fresh batch, publishes every descriptor but the first onto the
// pool as one chain, and returns the first to the caller directly.
//
// The batch is an ordinary Go-heap allocation rather than memory carved
// from the page provider: Descriptor holds live *ProcHeap/*descNode
// pointers, and the garbage collector cannot trace pointers embedded in
// memory it didn't allocate. The batch-carved, never-individually-freed
// economics are unaffected; only the backing allocator differs.
func descAllocFreshBlock() *Descriptor {
	n := descriptorBlockSize() / unsafe.Sizeof(Descriptor{})
	if n == 0 {
		n = 1
	}
	block := make([]Descriptor, n)
	first := &block[0]

	rest := block[1:]
	if len(rest) == 0 {
		return first
	}

	nodes := make([]*descNode, len(rest))
	for i := range rest {
		nodes[i] = &descNode{desc: &rest[i]}
	}
	for i := 0; i < len(rest)-1; i++ {
		rest[i].nextFree.Store(nodes[i+1])
	}

	last := &rest[len(rest)-1]
	for {
		oldHead := descPoolHead.Load()
		last.nextFree.Store(oldHead)

		var counter uint64
		if oldHead != nil {
			counter = oldHead.counter + 1
		}
		nodes[0].counter = counter

		if descPoolHead.CompareAndSwap(oldHead, nodes[0]) {
			break
		}
	}

	return first
}
