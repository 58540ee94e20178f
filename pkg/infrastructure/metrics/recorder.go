package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "supplydesk"

// Outcome labels
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Recorder tracks decision counts, latencies, cache effectiveness and plan warnings
type Recorder struct {
	decisions   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheLookup *prometheus.CounterVec
	warnings    *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Decision requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_duration_seconds",
			Help:      "Time spent computing a decision.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"operation"}),
		cacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by operation and result.",
		}, []string{"operation", "result"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_warnings_total",
			Help:      "Allocation plan warnings by operation and code.",
		}, []string{"operation", "code"}),
	}

	for _, c := range []prometheus.Collector{r.decisions, r.duration, r.cacheLookup, r.warnings} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one decision and how long it took
func (r *Recorder) Observe(operation, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CacheLookup records a cache hit or miss
func (r *Recorder) CacheLookup(operation string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookup.WithLabelValues(operation, result).Inc()
}

// Warning records a warning attached to an allocation plan
func (r *Recorder) Warning(operation, code string) {
	if r == nil {
		return
	}
	r.warnings.WithLabelValues(operation, code).Inc()
}
