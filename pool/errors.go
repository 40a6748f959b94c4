package pool

import "errors"

// Error definitions. The taxonomy is intentionally flat: every public
// operation surfaces at most one of these through its single failure
// channel (see spec.md §7).
var (
	// ErrAlreadyInitialised is returned by Init on an allocator that has
	// already completed a successful Init call.
	ErrAlreadyInitialised = errors.New("pool: allocator already initialised")

	// ErrEmptyConfig is returned by Init when block_sizes is empty.
	ErrEmptyConfig = errors.New("pool: block size sequence is empty")

	// ErrTooManyPools is returned by Init when len(block_sizes) > NMax.
	ErrTooManyPools = errors.New("pool: too many pools requested")

	// ErrZeroBlockSize is returned by Init when a requested block size is 0.
	ErrZeroBlockSize = errors.New("pool: block size must be positive")

	// ErrNotStrictlyIncreasing is returned by Init when block_sizes is not
	// strictly increasing.
	ErrNotStrictlyIncreasing = errors.New("pool: block sizes must be strictly increasing")

	// ErrBlockExceedsPool is returned by Init when an aligned block size
	// would not fit inside its pool's slab.
	ErrBlockExceedsPool = errors.New("pool: aligned block size exceeds derived pool capacity")

	// ErrNotInitialised names the "used before Init" condition. No function
	// in this package returns it: Alloc and Free on an Uninitialised
	// allocator stay silent (nil / no-op).
	ErrNotInitialised = errors.New("pool: allocator not initialised")
)
