// Package metrics exposes Prometheus instrumentation for the workflow and
// its HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Workflow collects per-run and per-node metrics.
type Workflow struct {
	runs         *prometheus.CounterVec
	retries      prometheus.Counter
	nodeDuration *prometheus.HistogramVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
}

// NewWorkflow creates the workflow metric set and registers it.
func NewWorkflow(reg prometheus.Registerer) *Workflow {
	m := &Workflow{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "runs_total",
			Help:      "Completed workflow runs by route.",
		}, []string{"route"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "regeneration_retries_total",
			Help:      "Regeneration attempts triggered by failed grounding checks.",
		}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "advisor",
			Name:      "node_duration_seconds",
			Help:      "Wall time spent in each workflow node.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"node"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "answer_cache_hits_total",
			Help:      "Answers served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "answer_cache_misses_total",
			Help:      "Questions that required a full workflow run.",
		}),
	}
	reg.MustRegister(m.runs, m.retries, m.nodeDuration, m.cacheHits, m.cacheMisses)
	return m
}

// RunCompleted records one terminated run.
func (m *Workflow) RunCompleted(route string, retries int) {
	m.runs.WithLabelValues(route).Inc()
	if retries > 0 {
		m.retries.Add(float64(retries))
	}
}

// ObserveNode records the duration of a single node execution.
func (m *Workflow) ObserveNode(node string, d time.Duration) {
	m.nodeDuration.WithLabelValues(node).Observe(d.Seconds())
}

// CacheHit records an answer served from the cache.
func (m *Workflow) CacheHit() { m.cacheHits.Inc() }

// CacheMiss records a cache miss.
func (m *Workflow) CacheMiss() { m.cacheMisses.Inc() }
