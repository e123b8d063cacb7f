package lrmichael

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFree_Nil_NoOp(t *testing.T) {
	assert.NotPanics(t, func() { free(0) })
}

func TestFree_UnregisteredPointer_NoOpWithoutDebugTag(t *testing.T) {
	assert.NotPanics(t, func() { free(0xdeadbeef) })
}

func TestFreeSmall_EmptySuperblockReturnedToProvider(t *testing.T) {
	heap := getProcHeap(96)
	require.NotNil(t, heap)

	priv := &ProcHeap{sizeclass: heap.sizeclass, classIdx: heap.classIdx}
	ptr := mallocFromNewSB(priv)
	require.NotZero(t, ptr)

	desc := getDescriptorForPtr(ptr)
	require.NotNil(t, desc)
	maxcount := desc.maxcount

	// Drain every block: the active pointer holds credits-1 of them, the
	// anchor's free list holds the rest.
	ptrs := []uintptr{ptr}
	for {
		p := mallocFromActive(priv)
		if p == 0 {
			break
		}
		ptrs = append(ptrs, p)
	}
	require.Len(t, ptrs, int(maxcount))

	for _, p := range ptrs {
		free(p)
	}

	assert.Nil(t, getDescriptorForPtr(ptr), "superblock must be unregistered once fully freed")
}

func TestFreeSmall_FullToPartialPushesOntoHeapStack(t *testing.T) {
	heap := getProcHeap(32)
	require.NotNil(t, heap)

	priv := &ProcHeap{sizeclass: heap.sizeclass, classIdx: heap.classIdx}
	ptr := mallocFromNewSB(priv)
	require.NotZero(t, ptr)

	var all []uintptr
	all = append(all, ptr)
	for {
		p := mallocFromActive(priv)
		if p == 0 {
			break
		}
		all = append(all, p)
	}
	// Active is now nil/FULL; freeing one block must push the descriptor
	// onto priv's partial stack rather than leave it stranded.
	free(all[0])

	desc := heapPopPartial(priv)
	require.NotNil(t, desc)
	assert.Equal(t, sbPartial, desc.loadAnchor().state)

	for _, p := range all[1:] {
		free(p)
	}
}
