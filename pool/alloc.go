package pool

import "unsafe"

// Alloc requests n bytes from the allocator. It returns a slice of exactly
// n bytes backed directly by the chosen slot — no header, no copy — or nil
// if n is 0, the allocator is Uninitialised, no pool's block size is large
// enough, or every pool that could serve n is exhausted.
//
// The returned slice is W-byte aligned and safe to write up to its full
// capacity (the slot's aligned size), though only the first n bytes are
// guaranteed to the caller.
func (a *Allocator) Alloc(n int) []byte {
	if a.st != stateInitialised {
		return nil
	}
	if n <= 0 {
		return nil
	}

	ideal := a.searchFirstFit(n)
	idx, ok := a.resolve(n)
	if !ok {
		Debug().Int("n", n).Msg("alloc: no pool available")
		metricsExhaustedTotal.Inc()
		return nil
	}
	if idx > ideal {
		metricsOverflowTotal.Inc()
		Debug().Int("n", n).Int("ideal_pool", ideal).Int("served_by_pool", idx).
			Msg("alloc: overflow into larger pool")
	}

	addr, ok := a.popHead(idx)
	if !ok {
		// resolve guaranteed nextFree != 0; a false here would mean the
		// free list and the header disagree, which Init/Free discipline
		// should never allow.
		Error().Int("pool", idx).Msg("alloc: resolved pool unexpectedly empty")
		return nil
	}

	metricsAllocTotal.Inc()
	Debug().Int("pool", idx).Int("n", n).Msg("alloc: served")

	ptr := (*byte)(unsafe.Pointer(addr))
	return unsafe.Slice(ptr, a.slotStride[idx])[:n:a.slotStride[idx]]
}

// Free returns a slice previously returned by Alloc to its owning pool's
// free list. Freeing a slice that does not fall within any configured
// pool's slab, or whose address is not a slot boundary, is a silent no-op
// (spec.md §4.3/§7's range error, hardened per SPEC_FULL.md §8 to also
// reject non-slot-aligned addresses). Freeing before Init is also a silent
// no-op. Double-freeing, or freeing a slice not produced by Alloc, is
// undefined behaviour the core makes no attempt to detect.
func (a *Allocator) Free(b []byte) {
	if a.st != stateInitialised {
		return
	}
	if len(b) == 0 {
		return
	}

	addr := uintptr(unsafe.Pointer(&b[0]))
	idx, ok := a.poolIndexOf(addr)
	if !ok {
		Debug().Msg("free: address out of pools range, ignored")
		metricsFreeRangeRejected.Inc()
		return
	}
	if !a.slotAligned(idx, addr) {
		Error().Int("pool", idx).Msg("free: address is not slot-aligned, ignored")
		metricsFreeRangeRejected.Inc()
		return
	}

	a.pushHead(idx, addr)
	metricsFreeTotal.Inc()
	Debug().Int("pool", idx).Msg("free: returned to pool")
}

// Stats returns a per-pool occupancy snapshot for diagnostics. It reports
// zero values if the allocator is Uninitialised.
func (a *Allocator) Stats() []PoolStats {
	if a.st != stateInitialised {
		return nil
	}
	out := make([]PoolStats, a.n)
	for i := 0; i < a.n; i++ {
		h := a.headerAt(i)
		free := 0
		for addr := h.nextFree; addr != 0; addr = readLink(addr) {
			free++
		}
		out[i] = PoolStats{
			BlockSize:  int(h.blockSize),
			SlotStride: a.slotStride[i],
			SlotCount:  a.slotCount[i],
			FreeCount:  free,
		}
	}
	return out
}
