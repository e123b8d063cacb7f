package lrmichael

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMalloc_ZeroSizeReturnsNil(t *testing.T) {
	assert.Nil(t, Malloc(0))
}

func TestMallocFree_SmallRoundTrip(t *testing.T) {
	p := Malloc(64)
	require.NotNil(t, p)
	*(*uint64)(p) = 0xdeadbeef
	assert.EqualValues(t, 0xdeadbeef, *(*uint64)(p))
	Free(p)
}

func TestMallocFree_LargeRoundTrip(t *testing.T) {
	p := Malloc(1 << 21)
	require.NotNil(t, p)
	Free(p)
}

func TestFree_NilIsNoOp(t *testing.T) {
	assert.NotPanics(t, func() { Free(nil) })
}

func TestCalloc_ZeroesMemory(t *testing.T) {
	const n = 256
	p := Calloc(n, 1)
	require.NotNil(t, p)

	b := unsafe.Slice((*byte)(p), n)
	for _, v := range b {
		require.Zero(t, v)
	}
	Free(p)
}

func TestCalloc_OverflowReturnsNil(t *testing.T) {
	assert.Nil(t, Calloc(^uintptr(0), 2))
}

func TestMallocUsableSize_ForeignPointerIsZero(t *testing.T) {
	assert.Zero(t, MallocUsableSize(unsafe.Pointer(uintptr(0x1234))))
}

func TestMallocUsableSize_AtLeastRequested(t *testing.T) {
	p := Malloc(100)
	require.NotNil(t, p)
	assert.GreaterOrEqual(t, MallocUsableSize(p), uintptr(100))
	Free(p)
}

func TestRealloc_NilActsLikeMalloc(t *testing.T) {
	p := Realloc(nil, 32)
	require.NotNil(t, p)
	Free(p)
}

func TestRealloc_ZeroActsLikeFree(t *testing.T) {
	p := Malloc(32)
	require.NotNil(t, p)
	assert.Nil(t, Realloc(p, 0))
}

func TestRealloc_PreservesContents(t *testing.T) {
	p := Malloc(16)
	require.NotNil(t, p)
	*(*uint32)(p) = 0x12345678

	p2 := Realloc(p, 256)
	require.NotNil(t, p2)
	assert.EqualValues(t, 0x12345678, *(*uint32)(p2))
	Free(p2)
}

func TestPosixMemalign_RejectsNonPowerOfTwo(t *testing.T) {
	_, err := PosixMemalign(24, 64)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPosixMemalign_SmallPathStaysAligned(t *testing.T) {
	p, err := PosixMemalign(16, 64)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Zero(t, uintptr(p)%16)
	Free(p)
}

func TestPosixMemalign_LargePathStaysAligned(t *testing.T) {
	p, err := PosixMemalign(1<<16, 1<<20)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Zero(t, uintptr(p)%(1<<16))
	Free(p)
}

func TestAlignedAlloc_RejectsSizeNotMultipleOfAlignment(t *testing.T) {
	assert.Nil(t, AlignedAlloc(64, 100))
}

func TestValloc_PageAligned(t *testing.T) {
	p := Valloc(128)
	require.NotNil(t, p)
	assert.Zero(t, uintptr(p)%Page)
	Free(p)
}

func TestPvalloc_RoundsUpAndPageAligns(t *testing.T) {
	p := Pvalloc(1)
	require.NotNil(t, p)
	assert.Zero(t, uintptr(p)%Page)
	assert.GreaterOrEqual(t, MallocUsableSize(p), Page)
	Free(p)
}
