// Package sizeclass computes the static size-class table used to route an
// allocation request to a per-class heap. It is the "size-class table"
// external collaborator described by the allocator: the superblock
// allocator only ever asks it for a class index, never cares how the
// table was built.
package sizeclass

import "fmt"

// Page is the page size classes and superblocks are sized in multiples of.
const Page = 4096

// Class describes one size class: every block carved from one of its
// superblocks is exactly BlockSize bytes, and a superblock is SBSize bytes
// split into BlocksPerSB blocks.
type Class struct {
	BlockSize  uintptr
	SBSize     uintptr
	BlocksPerSB uint32
}

// maxBlocksPerSB keeps Anchor.avail/Anchor.count (25 bits each) comfortably
// clear of overflow; see anchor.go in the root package for the encoding.
const maxBlocksPerSB = 1 << 20

// Table is an ordered, 1-indexed size-class table. Index 0 is reserved by
// convention for "no class fits, use the large-allocation path."
type Table struct {
	classes []Class // classes[0] is unused padding, classes[1:] are real
	bounds  []uintptr
}

// config describes a small/medium progression: linear steps for small
// requests, then geometric growth up to the large-object threshold.
type config struct {
	smallMin, smallMax, smallStep uintptr
	mediumMax                     uintptr
	growth                        float64
	sbTarget                      uintptr // approx superblock size to aim for
}

var defaultConfig = config{
	smallMin:  16,
	smallMax:  512,
	smallStep: 16,
	mediumMax: 16 * 1024,
	growth:    1.5,
	sbTarget:  4 * Page,
}

// New builds the default size-class table.
func New() *Table {
	return newFromConfig(defaultConfig)
}

func newFromConfig(cfg config) *Table {
	t := &Table{
		classes: make([]Class, 1, 64),
		bounds:  make([]uintptr, 1, 64),
	}
	t.classes[0] = Class{}
	t.bounds[0] = 0

	add := func(blockSize uintptr) {
		sbSize, blocksPerSB := sbFor(blockSize, cfg.sbTarget)
		t.classes = append(t.classes, Class{
			BlockSize:   blockSize,
			SBSize:      sbSize,
			BlocksPerSB: blocksPerSB,
		})
		t.bounds = append(t.bounds, blockSize)
	}

	for size := cfg.smallMin; size < cfg.smallMax; size += cfg.smallStep {
		add(size)
	}
	for size := cfg.smallMax; size < cfg.mediumMax; {
		add(size)
		next := uintptr(float64(size) * cfg.growth)
		// Keep every class a multiple of smallStep (16) so blocks carved
		// from a page-aligned superblock stay 16-byte aligned.
		next = (next + cfg.smallStep - 1) / cfg.smallStep * cfg.smallStep
		if next <= size {
			next = size + 1
		}
		size = next
	}

	return t
}

// sbFor picks a superblock size that's a multiple of Page and holds at
// least a few blocks, without blowing past maxBlocksPerSB.
func sbFor(blockSize, target uintptr) (uintptr, uint32) {
	sbSize := target
	if sbSize < blockSize {
		// round up to the next page multiple that fits at least one block
		sbSize = (blockSize + Page - 1) / Page * Page
	}
	// round sbSize up to a page multiple
	sbSize = (sbSize + Page - 1) / Page * Page

	blocks := sbSize / blockSize
	if blocks < 2 {
		// MallocFromNewSB's credit math assumes at least one block besides
		// block 0 is available to hand out; force a second block's worth
		// of room rather than carrying that edge case forward.
		sbSize = (2*blockSize + Page - 1) / Page * Page
		blocks = sbSize / blockSize
	}
	if blocks > maxBlocksPerSB {
		blocks = maxBlocksPerSB
		sbSize = blocks * blockSize
		sbSize = (sbSize + Page - 1) / Page * Page
	}
	return sbSize, uint32(blocks)
}

// NumClasses returns the number of real classes (excluding index 0).
func (t *Table) NumClasses() int {
	return len(t.classes) - 1
}

// Class returns the size-class metadata for a (1-based) class index. Index
// 0 is the sentinel "too large" class and returns the zero Class.
func (t *Table) Class(idx int) Class {
	if idx <= 0 || idx >= len(t.classes) {
		return Class{}
	}
	return t.classes[idx]
}

// ClassFor maps a requested allocation size to a class index, or 0 if the
// size doesn't fit any class and must take the large-allocation path.
func (t *Table) ClassFor(size uintptr) int {
	lo, hi := 1, len(t.bounds)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.bounds[mid] {
			if mid == 1 || size > t.bounds[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return 0
}

func (t *Table) String() string {
	return fmt.Sprintf("sizeclass.Table{classes=%d, max=%d}", t.NumClasses(), t.bounds[len(t.bounds)-1])
}
