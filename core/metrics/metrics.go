package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "search_sync"

// Metrics holds the collectors of the synchronization engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	jobs     *prometheus.CounterVec
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Synchronization jobs run, by mode and result.",
		}, []string{"mode", "result"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Reconciliation actions applied to the index.",
		}, []string{"action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of synchronization jobs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 4, 8),
		}, []string{"mode"}),
	}
	reg.MustRegister(m.jobs, m.actions, m.duration)
	return m
}

// ObserveAction counts one applied action.
func (m *Metrics) ObserveAction(action string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action).Inc()
}

// ObserveJob records a finished job.
func (m *Metrics) ObserveJob(mode, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(mode, result).Inc()
	m.duration.WithLabelValues(mode).Observe(d.Seconds())
}
