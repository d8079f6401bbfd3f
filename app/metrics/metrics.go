package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "soublr"

// Outcome labels for the items counter
const (
	OutcomePosted      = "posted"
	OutcomeDuplicate   = "duplicate"
	OutcomeUnsupported = "unsupported"
	OutcomeFailed      = "failed"
	OutcomeDryRun      = "dry_run"
)

type Metrics struct {
	registry   *prometheus.Registry
	items      *prometheus.CounterVec
	logEntries prometheus.Gauge
	lastRun    prometheus.Gauge
	duration   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Feed items handled in this run, by outcome.",
		}, []string{"outcome"}),
		logEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_entries",
			Help:      "Entries in the processed posts log.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run.",
		}),
	}

	m.registry.MustRegister(m.items, m.logEntries, m.lastRun, m.duration)

	for _, outcome := range []string{OutcomePosted, OutcomeDuplicate, OutcomeUnsupported, OutcomeFailed, OutcomeDryRun} {
		m.items.WithLabelValues(outcome)
	}

	return m
}

func (m *Metrics) Observe(outcome string) {
	m.items.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetLogEntries(n int) {
	m.logEntries.Set(float64(n))
}

func (m *Metrics) Finish(duration time.Duration, finishedAt time.Time) {
	m.duration.Set(duration.Seconds())
	m.lastRun.Set(float64(finishedAt.Unix()))
}

// WriteToTextfile writes all metrics in the Prometheus text format, e.g. for
// node_exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
