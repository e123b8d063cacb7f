package lrmichael

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMallocLarge_RegistersAndFrees(t *testing.T) {
	ptr := mallocLarge(1 << 20)
	require.NotZero(t, ptr)

	desc := getDescriptorForPtr(ptr)
	require.NotNil(t, desc)
	assert.Nil(t, desc.heap)
	assert.GreaterOrEqual(t, desc.blockSize, uintptr(1<<20))

	freeLarge(desc, ptr)
	assert.Nil(t, getDescriptorForPtr(ptr))
}

func TestMallocLargeAligned_PointerIsAligned(t *testing.T) {
	const alignment = 64 * 1024

	ptr := mallocLargeAligned(alignment, 4096)
	require.NotZero(t, ptr)
	assert.Zero(t, ptr%alignment)

	desc := getDescriptorForPtr(ptr)
	require.NotNil(t, desc)
	freeLarge(desc, ptr)
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uintptr(0), alignUp(0, 16))
	assert.Equal(t, uintptr(16), alignUp(1, 16))
	assert.Equal(t, uintptr(16), alignUp(16, 16))
	assert.Equal(t, uintptr(32), alignUp(17, 16))
}
