// Package metrics exposes Prometheus collectors for table sessions and the
// row pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation results.
const (
	ResultOK           = "ok"
	ResultAborted      = "aborted"
	ResultInvalid      = "invalid"
	ResultRefused      = "refused"
	ResultNotFound     = "not_found"
	ResultPersistError = "persist_error"
)

type Metrics struct {
	ops            *prometheus.CounterVec
	sessions       prometheus.Gauge
	pipelineRuns   prometheus.Counter
	pipelineRows   prometheus.Histogram
	pipelineGroups prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datatable",
			Name:      "session_operations_total",
			Help:      "Configuration session operations by name and result.",
		}, []string{"op", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datatable",
			Name:      "sessions_open",
			Help:      "Number of open table sessions.",
		}),
		pipelineRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datatable",
			Name:      "pipeline_runs_total",
			Help:      "Row pipeline derivations.",
		}),
		pipelineRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datatable",
			Name:      "pipeline_input_rows",
			Help:      "Rows handed to the row pipeline per derivation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		pipelineGroups: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datatable",
			Name:      "pipeline_groups",
			Help:      "Groups produced per grouped derivation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ops, m.sessions, m.pipelineRuns, m.pipelineRows, m.pipelineGroups)
	}
	return m
}

// Op counts one session operation.
func (m *Metrics) Op(op, result string) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, result).Inc()
}

// SessionOpened and SessionClosed track open sessions.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// Pipeline records one derivation over rows input rows yielding groups
// groups (0 when ungrouped).
func (m *Metrics) Pipeline(rows, groups int) {
	if m == nil {
		return
	}
	m.pipelineRuns.Inc()
	m.pipelineRows.Observe(float64(rows))
	if groups > 0 {
		m.pipelineGroups.Observe(float64(groups))
	}
}

// OpCount returns the counter for op and result, for tests and diagnostics.
func (m *Metrics) OpCount(op, result string) prometheus.Counter {
	return m.ops.WithLabelValues(op, result)
}
