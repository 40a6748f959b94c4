// Package bench provides a stress/throughput harness that drives a
// pool.Allocator with randomised allocate/free traffic and reports hit/miss
// statistics, adapted from the teacher's mpool.MemoryPool pre-allocation
// and statistics bookkeeping.
package bench

import (
	"fmt"
	"math/rand"

	"github.com/shenjiangwei/segpool/pool"
)

// Stats mirrors the teacher's PoolStats shape (TotalAllocations, hits,
// misses, frees) against the segregated-pool allocator instead of the
// teacher's size-bucketed pre-allocation pools.
type Stats struct {
	TotalAllocations uint64
	AllocHits        uint64 // Alloc returned a non-nil slice
	AllocMisses      uint64 // Alloc returned nil (exhausted or unsupported size)
	TotalFrees       uint64
}

// Harness drives one pool.Allocator with randomised traffic and keeps every
// outstanding allocation so it can free a random subset each round, the
// same write/release rhythm as the teacher's runStressTest.
type Harness struct {
	alloc       *pool.Allocator
	sizes       []int
	outstanding [][]byte
	stats       Stats
	rng         *rand.Rand
}

// New builds a Harness over an Allocator already Init'd with sizes; sizes
// should match (or be a subset of) the sizes passed to Init so allocations
// land in real pools instead of always overflowing.
func New(alloc *pool.Allocator, sizes []int, seed int64) *Harness {
	return &Harness{
		alloc: alloc,
		sizes: sizes,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Step performs one allocate-or-free decision, biased allocProbability
// toward allocation, matching the teacher's 70/30 split in main.go.
func (h *Harness) Step(allocProbability float64) {
	if len(h.outstanding) == 0 || h.rng.Float64() < allocProbability {
		h.allocateOne()
		return
	}
	h.freeOne()
}

func (h *Harness) allocateOne() {
	size := h.sizes[h.rng.Intn(len(h.sizes))]
	h.stats.TotalAllocations++

	b := h.alloc.Alloc(size)
	if b == nil {
		h.stats.AllocMisses++
		return
	}
	h.stats.AllocHits++
	h.outstanding = append(h.outstanding, b)
}

func (h *Harness) freeOne() {
	if len(h.outstanding) == 0 {
		return
	}
	idx := h.rng.Intn(len(h.outstanding))
	b := h.outstanding[idx]
	h.outstanding[idx] = h.outstanding[len(h.outstanding)-1]
	h.outstanding = h.outstanding[:len(h.outstanding)-1]

	h.alloc.Free(b)
	h.stats.TotalFrees++
}

// Run performs n steps and returns the accumulated Stats.
func (h *Harness) Run(n int, allocProbability float64) Stats {
	for i := 0; i < n; i++ {
		h.Step(allocProbability)
	}
	return h.stats
}

// Report renders a human-readable summary, matching the teacher's
// mpool.Close statistics printout.
func (s Stats) Report() string {
	hitRate := 0.0
	if s.TotalAllocations > 0 {
		hitRate = float64(s.AllocHits) / float64(s.TotalAllocations) * 100
	}
	return fmt.Sprintf(
		"Total Allocations: %d\nAlloc Hits: %d (%.2f%%)\nAlloc Misses: %d\nTotal Frees: %d\n",
		s.TotalAllocations, s.AllocHits, hitRate, s.AllocMisses, s.TotalFrees)
}
