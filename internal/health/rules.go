package health

import "memocache/internal/metrics"

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates a metrics snapshot.
type Rule func(snapshot map[string]int64) RuleResult

// ---------- RULES ----------

// Recovered faults mean a store operation panicked and was turned into a
// miss. Callers keep working but the cache is not doing its job.
func FaultRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.CacheFaultsTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Store operations recovered from panics",
			Recommendation: "Inspect ERROR logs for the failing operation and key",
			Severity:       StatusCritical,
		}
	}
	return RuleResult{}
}

// Overflow flushes drop the whole cache at once.
func OverflowFlushRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.CacheFlushesTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Cache exceeded its capacity and was flushed",
			Recommendation: "Raise cache.max_entries or shorten entry TTLs",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Type mismatches are misses caused by callers disagreeing on a key's type.
func TypeMismatchRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.CacheTypeMismatchTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Values requested with a different type than stored",
			Recommendation: "Check callers sharing a key use the same value type",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Failing loaders are served as errors on every miss.
func LoaderFailureRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.LoaderFailuresTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Cache loaders returned errors",
			Recommendation: "Check the backends behind GetOrLoad callers",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Entries with a deadline are only reclaimed on read unless the ttl cleaner
// sweeps them.
func SweepStalledRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.CacheExpiringKeys)] > 0 &&
		snapshot[string(metrics.TTLCleanupRunsTotal)] == 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Entries with a TTL are held but no sweep has run",
			Recommendation: "Start the ttl cleaner or shorten cleanup.interval",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}
