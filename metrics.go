package hxhydrate

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for an engine. A nil *Metrics
// records nothing.
//
// Metrics collected:
//   - hxhydrate_loads_total: placeholder loads by status
//   - hxhydrate_load_duration_seconds: duration of loads that issued a request
//   - hxhydrate_updates_total: action binding submissions by status
//   - hxhydrate_triggers_total: trigger calls by status
type Metrics struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	updates      *prometheus.CounterVec
	triggers     *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Use
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler, or a fresh prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hxhydrate",
			Name:      "loads_total",
			Help:      "Total number of placeholder loads by outcome",
		}, []string{"status"}),
		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hxhydrate",
			Name:      "load_duration_seconds",
			Help:      "Placeholder load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hxhydrate",
			Name:      "updates_total",
			Help:      "Total number of action binding submissions by outcome",
		}, []string{"status"}),
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hxhydrate",
			Name:      "triggers_total",
			Help:      "Total number of trigger calls by outcome",
		}, []string{"status"}),
	}
}

func (m *Metrics) observeLoad(out Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(out.Status.String()).Inc()
	if out.Status != StatusSkipped {
		m.loadDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) observeUpdate(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.updates.WithLabelValues(status).Inc()
}

func (m *Metrics) observeTrigger(out Outcome) {
	if m == nil {
		return
	}
	status := out.Status.String()
	if errors.Is(out.Err, ErrTargetNotFound) {
		status = "not_found"
	}
	m.triggers.WithLabelValues(status).Inc()
}
