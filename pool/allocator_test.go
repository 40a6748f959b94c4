package pool

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

// TestLIFOFreeOrder is scenario S1.
func TestLIFOFreeOrder(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{4, 1024, 2048}))

	p1 := a.Alloc(4)
	p2 := a.Alloc(4)
	require.NotNil(t, p1)
	require.NotNil(t, p2)

	a.Free(p1)
	a.Free(p2)

	p3 := a.Alloc(4)
	p4 := a.Alloc(4)

	assert.Equal(t, addr(p2), addr(p3))
	assert.Equal(t, addr(p1), addr(p4))
}

// TestPoolExhaustionAndRecovery is scenario S2.
func TestPoolExhaustionAndRecovery(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{32}))

	var last []byte
	for {
		b := a.Alloc(32)
		if b == nil {
			break
		}
		last = b
	}
	require.NotNil(t, last)

	a.Free(last)
	next := a.Alloc(32)
	require.NotNil(t, next)
	assert.Equal(t, addr(last), addr(next))
}

// TestOverflowIntoNextPool is scenario S3.
func TestOverflowIntoNextPool(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{32, 64}))

	for a.headerAt(0).nextFree != 0 {
		a.Alloc(32)
	}

	overflowed := a.Alloc(32)
	require.NotNil(t, overflowed, "expected overflow allocation to succeed from the 64-byte pool")

	idx, ok := a.poolIndexOf(addr(overflowed))
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	for a.Alloc(32) != nil {
	}
	assert.Nil(t, a.Alloc(32), "both pools exhausted, alloc(32) must fail")
}

// TestNoBackwardOverflow is scenario S4.
func TestNoBackwardOverflow(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{32, 64}))

	for a.Alloc(64) != nil {
	}

	assert.Nil(t, a.Alloc(64), "64-byte pool exhausted; must not fall back to the 32-byte pool")
	assert.NotNil(t, a.Alloc(32), "32-byte pool should still have free slots")
}

// TestVariedSizesWithinOnePool is scenario S5.
func TestVariedSizesWithinOnePool(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{32, 4096}))

	b1 := a.Alloc(10)
	b2 := a.Alloc(32)
	for _, b := range [][]byte{b1, b2} {
		require.NotNil(t, b)
		idx, ok := a.poolIndexOf(addr(b))
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	}

	for _, n := range []int{64, 512, 4096} {
		b := a.Alloc(n)
		require.NotNil(t, b)
		idx, ok := a.poolIndexOf(addr(b))
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	}

	assert.Nil(t, a.Alloc(4097))
	assert.Nil(t, a.Alloc(0))
}

// TestInitRejection is scenario S6.
func TestInitRejection(t *testing.T) {
	a := New()
	err := a.Init([]int{4, 2, 8})
	require.ErrorIs(t, err, ErrNotStrictlyIncreasing)
	assert.False(t, a.Initialised())
	assert.Nil(t, a.Alloc(4))
}

func ascendingSizes(n int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = (i + 1) * 8
	}
	return sizes
}

func TestInitValidation(t *testing.T) {
	cases := []struct {
		name    string
		sizes   []int
		wantErr error
	}{
		{"empty", nil, ErrEmptyConfig},
		{"zero element", []int{4, 0, 8}, ErrZeroBlockSize},
		{"descending", []int{8, 4}, ErrNotStrictlyIncreasing},
		{"duplicate", []int{4, 4, 8}, ErrNotStrictlyIncreasing},
		{"too many pools", ascendingSizes(NMax + 1), ErrTooManyPools},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := New()
			err := a.Init(tc.sizes)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.False(t, a.Initialised())
		})
	}
}

func TestInitOnlyOnce(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{8, 16}))
	err := a.Init([]int{8, 16})
	assert.ErrorIs(t, err, ErrAlreadyInitialised)
}

func TestAllocFreeBeforeInitAreNoops(t *testing.T) {
	a := New()
	assert.Nil(t, a.Alloc(8))
	a.Free([]byte{0, 0, 0, 0, 0, 0, 0, 0}) // must not panic
}

func TestFreeOutOfRangeIsNoop(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{8, 16}))

	before := a.Stats()
	garbage := make([]byte, 8)
	a.Free(garbage)
	after := a.Stats()

	assert.Equal(t, before, after)
}

func TestReturnedPointersAreAligned(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{3, 7, 31}))

	for _, n := range []int{1, 3, 7, 17, 31} {
		b := a.Alloc(n)
		require.NotNil(t, b)
		assert.Zero(t, addr(b)%uintptr(wordSize))
	}
}

// TestConsecutiveAllocStride is property 3: consecutive allocations against
// a single, untouched pool are exactly align_up(s, W) bytes apart.
func TestConsecutiveAllocStride(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{20}))

	stride := alignUp(20)
	prev := a.Alloc(20)
	require.NotNil(t, prev)
	for i := 0; i < 5; i++ {
		b := a.Alloc(20)
		require.NotNil(t, b)
		diff := addr(b) - addr(prev)
		assert.Equal(t, uintptr(stride), diff)
		prev = b
	}
}

// TestMultisetOfSlotAddresses is property 5: across any interleaving of
// alloc/free on a single pool, the set of addresses ever produced equals
// the set of slot start addresses for that pool, and no address is
// outstanding twice.
func TestMultisetOfSlotAddresses(t *testing.T) {
	a := New()
	require.NoError(t, a.Init([]int{16}))

	slotCount := a.slotCount[0]
	seen := make(map[uintptr]bool)
	outstanding := make(map[uintptr][]byte)

	for step := 0; step < slotCount*3; step++ {
		if step%3 != 2 && len(outstanding) < slotCount {
			b := a.Alloc(16)
			require.NotNil(t, b)
			ad := addr(b)
			require.False(t, outstanding[ad] != nil, "address handed out while still outstanding")
			seen[ad] = true
			outstanding[ad] = b
		} else if len(outstanding) > 0 {
			for k, v := range outstanding {
				a.Free(v)
				delete(outstanding, k)
				break
			}
		}
	}
	assert.Len(t, seen, slotCount)
}

func TestDumpUninitialisedAndInitialised(t *testing.T) {
	var buf bytes.Buffer
	a := New()
	a.Dump(&buf)
	assert.Contains(t, buf.String(), "uninitialised")

	buf.Reset()
	require.NoError(t, a.Init([]int{8, 64}))
	a.Dump(&buf)
	assert.Contains(t, buf.String(), "pool.Allocator")
}
