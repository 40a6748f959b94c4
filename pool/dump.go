package pool

import (
	"fmt"
	"io"
)

// Dump prints the header table and a summary of each pool's free list to w,
// for interactive inspection. It is an optional debug surface, not part of
// the allocator's contract (spec.md §6), grounded on the original's
// runtime_pool_* test helpers and on mpool.go's statistics block in the
// teacher repo.
func (a *Allocator) Dump(w io.Writer) {
	if a.st != stateInitialised {
		fmt.Fprintln(w, "pool.Allocator: uninitialised")
		return
	}

	fmt.Fprintf(w, "pool.Allocator: %d pools, %d bytes total, pool size %d bytes\n", a.n, H, a.poolSize)
	for i, s := range a.Stats() {
		fmt.Fprintf(w, "  pool[%d] block_size=%d stride=%d slots=%d free=%d used=%d\n",
			i, s.BlockSize, s.SlotStride, s.SlotCount, s.FreeCount, s.SlotCount-s.FreeCount)
	}
}
