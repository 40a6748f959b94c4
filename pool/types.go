// Package pool implements a tunable segregated-block pool allocator over a
// single, fixed-size, statically reserved byte region.
//
// A region of H bytes is carved at Init time into a packed header table
// followed by N equal-sized pools, one per requested block size. Each pool
// threads its free slots into an intrusive singly-linked list whose link
// word lives inside the free slot itself, so a free slot carries no
// metadata beyond the one word needed to find the next free slot.
package pool

import "unsafe"

const (
	// H is the total size, in bytes, of the statically reserved region.
	H = 65536

	// NMax is the maximum number of pools an Allocator can be configured
	// with. The source material is split between 64 and 248; 64 is chosen
	// here to keep the header table under one kilobyte and leave more of
	// H for slab space.
	NMax = 64
)

// wordSize is the machine pointer width, the alignment quantum for every
// pool and slot start.
var wordSize = int(unsafe.Sizeof(uintptr(0)))

// poolHeader is the per-pool metadata record. It occupies exactly two
// machine words (nextFree, blockSize) and, for an initialised Allocator, N
// of them sit packed at the very start of the heap region.
type poolHeader struct {
	nextFree  uintptr // address of the head of the free list, or 0
	blockSize uintptr // user-requested block size, unaligned, as given
}

var headerSize = int(unsafe.Sizeof(poolHeader{}))

// state is the allocator's lifecycle state.
type state int

const (
	stateUninitialised state = iota
	stateInitialised
)

// Allocator is a single segregated-block pool allocator instance. The zero
// value is not usable; construct one with New and configure it with Init.
//
// Allocator holds no lock and makes no concurrency guarantees: every field
// below, including the embedded heap, is plain mutable state intended for
// single-threaded use, matching the core's scope.
type Allocator struct {
	heap [H]byte

	n          int   // number of configured pools
	poolOffset int   // byte offset of pool 0, i.e. end of header table
	poolSize   int   // P, the per-pool slab length in bytes
	slotStride []int // align_up(blockSize, W) per pool, len n
	slotCount  []int // floor(P / slotStride[i]) per pool, len n
	st         state

	lastCache int // index of the last-used pool, or -1
}

// PoolStats describes the occupancy of a single pool, for diagnostics only.
type PoolStats struct {
	BlockSize  int
	SlotStride int
	SlotCount  int
	FreeCount  int
}
