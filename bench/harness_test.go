package bench

import (
	"testing"

	"github.com/shenjiangwei/segpool/pool"
	"github.com/stretchr/testify/require"
)

func TestHarnessRunProducesStats(t *testing.T) {
	a := pool.New()
	require.NoError(t, a.Init([]int{16, 64, 256}))

	h := New(a, []int{16, 64, 256}, 1)
	stats := h.Run(500, 0.7)

	require.Equal(t, uint64(356), stats.TotalAllocations)
	require.GreaterOrEqual(t, stats.AllocHits, uint64(0))
	require.Contains(t, stats.Report(), "Total Allocations: 356")
}
