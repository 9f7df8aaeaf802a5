package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "memocache"

// exported lists the registry keys the Collector publishes, with their help
// text. Keys not listed here stay visible through Snapshot only.
var exported = []struct {
	key  MetricKey
	help string
	kind prometheus.ValueType
}{
	{CacheKeys, "Number of entries physically held by the store.", prometheus.GaugeValue},
	{CacheExpiringKeys, "Number of held entries that carry a deadline.", prometheus.GaugeValue},
	{CacheSetsTotal, "Total number of set operations.", prometheus.CounterValue},
	{CacheGetsTotal, "Total number of get operations.", prometheus.CounterValue},
	{CacheHitsTotal, "Total number of gets that returned a value.", prometheus.CounterValue},
	{CacheMissesTotal, "Total number of gets that returned no value.", prometheus.CounterValue},
	{CacheTypeMismatchTotal, "Total number of gets that requested a different type than stored.", prometheus.CounterValue},
	{CacheExpiredTotal, "Total number of entries removed after their deadline.", prometheus.CounterValue},
	{CacheFlushesTotal, "Total number of overflow flushes.", prometheus.CounterValue},
	{CacheFaultsTotal, "Total number of panics recovered inside store operations.", prometheus.CounterValue},
	{LoaderCallsTotal, "Total number of loader invocations on a miss.", prometheus.CounterValue},
	{LoaderFailuresTotal, "Total number of loader invocations that returned an error.", prometheus.CounterValue},
	{TTLCleanupRunsTotal, "Total number of sweeps run by the ttl cleaner.", prometheus.CounterValue},
	{TTLKeysRemovedTotal, "Total number of entries removed by the ttl cleaner.", prometheus.CounterValue},
}

// Collector exposes a Registry as Prometheus metrics.
type Collector struct {
	reg   *Registry
	descs []*prometheus.Desc
}

// NewCollector creates a Collector reading from reg on every scrape.
func NewCollector(reg *Registry) *Collector {
	descs := make([]*prometheus.Desc, len(exported))
	for i, m := range exported {
		descs[i] = prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", string(m.key)),
			m.help, nil, nil,
		)
	}
	return &Collector{reg: reg, descs: descs}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.reg.Snapshot()
	for i, m := range exported {
		ch <- prometheus.MustNewConstMetric(c.descs[i], m.kind, float64(snap[string(m.key)]))
	}
}

var _ prometheus.Collector = (*Collector)(nil)
