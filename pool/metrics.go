package pool

import "github.com/prometheus/client_golang/prometheus"

// Prometheus counters instrumenting allocator activity. This is an ambient
// observability collaborator, not part of the core's contract: the core's
// only in-band statistics surface is Dump/Stats (spec.md §6's "debug
// surface"). The counters are package-level values, as in
// partitioningBlockAllocator in buildbarn-bb-storage, and are exposed only
// once a caller registers them through RegisterMetrics.
var (
	metricsAllocTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "segpool",
		Name:      "allocs_total",
		Help:      "Number of successful Alloc calls.",
	})
	metricsFreeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "segpool",
		Name:      "frees_total",
		Help:      "Number of successful Free calls.",
	})
	metricsOverflowTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "segpool",
		Name:      "overflow_total",
		Help:      "Number of Alloc calls served by a pool larger than the ideal one.",
	})
	metricsExhaustedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "segpool",
		Name:      "exhausted_total",
		Help:      "Number of Alloc calls that found no pool with free space.",
	})
	metricsFreeRangeRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "segpool",
		Name:      "free_range_rejected_total",
		Help:      "Number of Free calls silently dropped because the address was out of range or unaligned.",
	})
)

// RegisterMetrics registers the package's Prometheus collectors against reg.
// Safe to call multiple times; only the first registration against a given
// registry takes effect per Prometheus semantics (duplicate registration
// errors from subsequent calls against the same registry are ignored).
func RegisterMetrics(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		metricsAllocTotal,
		metricsFreeTotal,
		metricsOverflowTotal,
		metricsExhaustedTotal,
		metricsFreeRangeRejected,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				Error().Err(err).Msg("failed to register pool metric")
			}
		}
	}
}
