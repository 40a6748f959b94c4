package pool

import "sync"

// alignUp rounds x up to the nearest multiple of wordSize.
func alignUp(x int) int {
	return (x + wordSize - 1) &^ (wordSize - 1)
}

// alignDown rounds x down to the nearest multiple of wordSize.
func alignDown(x int) int {
	return x &^ (wordSize - 1)
}

// New constructs a fresh, Uninitialised Allocator. Each call returns an
// independent value with its own embedded heap; Init must be called before
// Alloc/Free do anything useful.
func New() *Allocator {
	return &Allocator{lastCache: -1}
}

var (
	globalOnce sync.Once
	globalAlloc *Allocator
)

// Global returns the process-wide Allocator singleton, constructing it on
// first use. It is the opt-in re-architecture of the teacher's "one
// process-wide instance" model (spec.md §9): still a single allocator
// value, just lazily built behind a one-shot discipline instead of module
// level mutable fields.
func Global() *Allocator {
	globalOnce.Do(func() {
		globalAlloc = New()
	})
	return globalAlloc
}

// Init partitions the allocator's region into a header table followed by
// len(blockSizes) pools and threads each pool's initial free list. It
// implements spec.md §4.1.
//
// blockSizes must be non-empty, strictly increasing, free of zero entries,
// bounded in length by NMax, and every aligned entry must fit inside the
// pool capacity P that H and len(blockSizes) derive. On any failure Init
// returns an error and leaves the allocator Uninitialised, so Init may be
// called again. Once an Init call has succeeded, every later Init call
// fails with ErrAlreadyInitialised.
func (a *Allocator) Init(blockSizes []int) error {
	if a.st == stateInitialised {
		Error().Msg("init rejected: allocator already initialised")
		return ErrAlreadyInitialised
	}

	n := len(blockSizes)
	if n == 0 {
		return ErrEmptyConfig
	}
	if n > NMax {
		Error().Int("n", n).Int("n_max", NMax).Msg("init rejected: too many pools")
		return ErrTooManyPools
	}
	for i, sz := range blockSizes {
		if sz <= 0 {
			return ErrZeroBlockSize
		}
		if i > 0 && blockSizes[i-1] >= sz {
			Error().Int("index", i).Msg("init rejected: block sizes not strictly increasing")
			return ErrNotStrictlyIncreasing
		}
	}

	// P = align_down(H/N - sizeof(PoolHeader), W), per spec.md §4.1.
	p := alignDown(H/n - headerSize)
	if p <= 0 {
		Error().Int("n", n).Msg("init rejected: derived pool size is non-positive")
		return ErrBlockExceedsPool
	}

	stride := make([]int, n)
	count := make([]int, n)
	for i, sz := range blockSizes {
		s := alignUp(sz)
		if s > p {
			Error().Int("index", i).Int("aligned_size", s).Int("pool_capacity", p).
				Msg("init rejected: aligned block size exceeds pool capacity")
			return ErrBlockExceedsPool
		}
		stride[i] = s
		count[i] = p / s
	}

	a.n = n
	a.poolOffset = n * headerSize
	a.poolSize = p
	a.slotStride = stride
	a.slotCount = count
	a.lastCache = -1

	for i, sz := range blockSizes {
		h := a.headerAt(i)
		h.blockSize = uintptr(sz)
		a.threadInitialList(i)
	}

	a.st = stateInitialised
	Info().Int("pools", n).Int("pool_size", p).Msg("allocator initialised")
	return nil
}

// Initialised reports whether Init has completed successfully.
func (a *Allocator) Initialised() bool {
	return a.st == stateInitialised
}
