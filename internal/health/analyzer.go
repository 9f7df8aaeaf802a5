package health

import (
	"strings"

	"memocache/internal/logs"
	"memocache/internal/metrics"
)

// Analyzer converts metrics + logs into a health report.
type Analyzer struct {
	metrics *metrics.Registry
	logger  *logs.Logger
	rules   []Rule
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(
	reg *metrics.Registry,
	logger *logs.Logger,
) *Analyzer {
	return &Analyzer{
		metrics: reg,
		logger:  logger,
		rules: []Rule{
			FaultRule,
			OverflowFlushRule,
			TypeMismatchRule,
			LoaderFailureRule,
			SweepStalledRule,
		},
	}
}

// Analyze evaluates metrics and logs and returns a health report.
func (a *Analyzer) Analyze() Report {
	snapshot := a.metrics.Snapshot()

	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	/* ---------- METRICS-BASED RULES ---------- */

	for _, rule := range a.rules {
		result := rule(snapshot)
		if !result.Triggered {
			continue
		}

		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)
		status = escalate(status, result.Severity)
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	panicCount := 0
	for _, entry := range a.logger.GetLast(100) {
		if entry.Level == logs.ERROR &&
			strings.Contains(entry.Message, "panic") {
			panicCount++
		}
	}

	if panicCount > 0 {
		signals = append(signals,
			"Panics detected in recent logs",
		)
		recommendations = append(recommendations,
			"Inspect recent ERROR entries and stabilize the failing code path",
		)
		status = StatusCritical
	}

	/* ---------- SUMMARY ---------- */

	summary := "Cache is healthy"
	if status != StatusOK {
		summary = "Cache health issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}
