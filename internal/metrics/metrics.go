package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Cache
	CacheKeys              MetricKey = "cache_keys"
	CacheExpiringKeys      MetricKey = "cache_expiring_keys"
	CacheSetsTotal         MetricKey = "cache_sets_total"
	CacheGetsTotal         MetricKey = "cache_gets_total"
	CacheHitsTotal         MetricKey = "cache_hits_total"
	CacheMissesTotal       MetricKey = "cache_misses_total"
	CacheTypeMismatchTotal MetricKey = "cache_type_mismatch_total"
	CacheExpiredTotal      MetricKey = "cache_expired_total"
	CacheFlushesTotal      MetricKey = "cache_flushes_total"
	CacheFaultsTotal       MetricKey = "cache_faults_total"

	// Loader
	LoaderCallsTotal    MetricKey = "loader_calls_total"
	LoaderFailuresTotal MetricKey = "loader_failures_total"

	// TTL
	TTLCleanupRunsTotal MetricKey = "ttl_cleanup_runs_total"
	TTLKeysRemovedTotal MetricKey = "ttl_keys_removed_total"
)

// Registry stores all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

// Value returns the current value of a single metric, zero if never touched.
func (r *Registry) Value(key MetricKey) int64 {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if !ok {
		return 0
	}
	return atomic.LoadInt64(ptr)
}

// Snapshot returns a copy of every metric touched so far, keyed by name.
// Mutating the result does not affect the registry.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(r.counters))
	for key, ptr := range r.counters {
		out[string(key)] = atomic.LoadInt64(ptr)
	}
	return out
}
