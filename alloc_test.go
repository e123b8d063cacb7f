package lrmichael

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProcHeap_SmallSizeReturnsHeap(t *testing.T) {
	heap := getProcHeap(32)
	require.NotNil(t, heap)
	assert.GreaterOrEqual(t, heap.sizeclass.BlockSize, uintptr(32))
}

func TestGetProcHeap_HugeSizeReturnsNil(t *testing.T) {
	assert.Nil(t, getProcHeap(1<<40))
}

func TestMallocSmall_DistinctPointersNoOverlap(t *testing.T) {
	heap := getProcHeap(64)
	require.NotNil(t, heap)

	const n = 512
	ptrs := make([]uintptr, n)
	seen := make(map[uintptr]bool, n)
	for i := range ptrs {
		p := mallocSmall(heap)
		require.NotZero(t, p)
		require.False(t, seen[p], "block handed out twice while still live")
		seen[p] = true
		ptrs[i] = p
	}

	for _, p := range ptrs {
		free(p)
	}
}

func TestMallocSmall_ReusesFreedBlock(t *testing.T) {
	heap := getProcHeap(128)
	require.NotNil(t, heap)

	p1 := mallocSmall(heap)
	require.NotZero(t, p1)
	free(p1)

	p2 := mallocSmall(heap)
	require.NotZero(t, p2)
	assert.Equal(t, p1, p2, "the free list is LIFO, so the block just freed comes back first")
	free(p2)
}

func TestMallocFromNewSB_InstallsActiveAndRegistersPages(t *testing.T) {
	// A fresh, private ProcHeap rather than one of the package's shared
	// per-class heaps: mallocFromNewSB only installs itself as active when
	// the slot is still nil, and other tests may have already populated
	// the shared heap for this size class.
	shared := getProcHeap(48)
	require.NotNil(t, shared)
	heap := &ProcHeap{sizeclass: shared.sizeclass, classIdx: shared.classIdx}

	ptr := mallocFromNewSB(heap)
	require.NotZero(t, ptr)

	desc := getDescriptorForPtr(ptr)
	require.NotNil(t, desc)
	assert.Equal(t, heap, desc.heap)

	active := heap.active.Load()
	require.NotNil(t, active)
	assert.Same(t, desc, active.desc)

	free(ptr)
}
