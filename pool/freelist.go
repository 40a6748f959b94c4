package pool

import "unsafe"

// This file isolates every raw-pointer operation the allocator needs behind
// a small set of primitives: headerAt, poolBaseAddr, popHead, pushHead,
// threadInitialList and poolIndexOf. The safety argument for all of it rests
// on one invariant: every address handed out by popHead (and therefore ever
// passed to pushHead or poolIndexOf) lies inside the fixed, non-moving
// a.heap array of the Allocator that produced it, and pools are
// pairwise address-disjoint (I1). As long as that holds, storing a slot's
// "next free" address as a uintptr inside the slot itself is safe even
// though it is not a tracked pointer between writes and reads.

// headerAt returns the pool header for pool i, reinterpreting the
// corresponding headerSize-byte window at the start of the heap region.
func (a *Allocator) headerAt(i int) *poolHeader {
	off := i * headerSize
	return (*poolHeader)(unsafe.Pointer(&a.heap[off]))
}

// heapBaseAddr returns the address of the first byte of the heap region.
func (a *Allocator) heapBaseAddr() uintptr {
	return uintptr(unsafe.Pointer(&a.heap[0]))
}

// poolBaseAddr returns the address of the first byte of pool i's slab.
func (a *Allocator) poolBaseAddr(i int) uintptr {
	off := a.poolOffset + i*a.poolSize
	return uintptr(unsafe.Pointer(&a.heap[off]))
}

// readLink reads the free-list link word stored at addr.
func readLink(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

// writeLink stores the free-list link word v at addr.
func writeLink(addr uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = v
}

// threadInitialList eagerly threads every slot of pool i into its free
// list, ascending by offset, and sets the pool header's head to the first
// slot. Slot k's link points at slot k+1; the last slot links to 0 (NULL).
func (a *Allocator) threadInitialList(i int) {
	stride := a.slotStride[i]
	count := a.slotCount[i]
	base := a.poolBaseAddr(i)

	for k := 0; k < count; k++ {
		addr := base + uintptr(k*stride)
		var next uintptr
		if k+1 < count {
			next = base + uintptr((k+1)*stride)
		}
		writeLink(addr, next)
	}

	h := a.headerAt(i)
	if count > 0 {
		h.nextFree = base
	} else {
		h.nextFree = 0
	}
}

// popHead removes and returns the head of pool i's free list. ok is false
// if the pool has no free slots.
func (a *Allocator) popHead(i int) (addr uintptr, ok bool) {
	h := a.headerAt(i)
	if h.nextFree == 0 {
		return 0, false
	}
	addr = h.nextFree
	h.nextFree = readLink(addr)
	return addr, true
}

// pushHead prepends addr to pool i's free list (LIFO).
func (a *Allocator) pushHead(i int, addr uintptr) {
	h := a.headerAt(i)
	writeLink(addr, h.nextFree)
	h.nextFree = addr
}

// poolIndexOf recovers the owning pool index for addr via address-range
// decoding. ok is false when addr does not fall within any configured
// pool's slab (the only range check Free performs, per spec.md §4.3).
func (a *Allocator) poolIndexOf(addr uintptr) (idx int, ok bool) {
	base := a.heapBaseAddr()
	if addr < base {
		return 0, false
	}
	rel := addr - base
	poolsStart := uintptr(a.poolOffset)
	if rel < poolsStart {
		return 0, false
	}
	rel -= poolsStart
	i := int(rel) / a.poolSize
	if i < 0 || i >= a.n {
		return 0, false
	}
	return i, true
}

// slotAligned reports whether addr sits exactly on a slot boundary of pool
// idx, i.e. its offset from the pool's base is a multiple of that pool's
// slot stride. Rejecting unaligned addresses hardens Free beyond spec.md
// §4.3's literal range check, per the Open Question decision in
// SPEC_FULL.md §8.
func (a *Allocator) slotAligned(idx int, addr uintptr) bool {
	base := a.poolBaseAddr(idx)
	off := addr - base
	return off%uintptr(a.slotStride[idx]) == 0
}
