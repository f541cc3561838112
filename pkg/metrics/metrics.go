// Package metrics exposes Prometheus counters for the event loop and the
// action dispatcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "dbusevents"

// Action outcomes
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeNotFound = "not_found"
	OutcomeDryRun   = "dry_run"
)

// Action kinds
const (
	KindSignal = "signal"
	KindExec   = "exec"
)

// Metrics holds every collector the router and dispatcher record into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	MessagesReceived *prometheus.CounterVec
	SignalsDropped   prometheus.Counter
	RuleMatches      *prometheus.CounterVec
	Actions          *prometheus.CounterVec
	ActionsInFlight  prometheus.Gauge
}

// New creates the collectors and registers them, along with the Go runtime
// and process collectors, on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "messages_received_total",
				Help:      "Total number of messages pulled from the bus",
			},
			[]string{"type"},
		),

		SignalsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "messages_dropped_total",
				Help:      "Total number of non-signal messages ignored",
			},
		),

		RuleMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "matches_total",
				Help:      "Total number of signals matched, by rule",
			},
			[]string{"rule"},
		),

		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "actions",
				Name:      "total",
				Help:      "Total number of actions attempted, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		ActionsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "actions",
				Name:      "exec_in_flight",
				Help:      "Number of exec actions currently running",
			},
		),
	}

	m.registry.MustRegister(
		m.MessagesReceived,
		m.SignalsDropped,
		m.RuleMatches,
		m.Actions,
		m.ActionsInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordMessage counts a pulled message by type
func (m *Metrics) RecordMessage(messageType string) {
	if m == nil {
		return
	}
	m.MessagesReceived.WithLabelValues(messageType).Inc()
}

// RecordDropped counts a message that was not a signal
func (m *Metrics) RecordDropped() {
	if m == nil {
		return
	}
	m.SignalsDropped.Inc()
}

// RecordMatch counts a rule match
func (m *Metrics) RecordMatch(rule string) {
	if m == nil {
		return
	}
	m.RuleMatches.WithLabelValues(rule).Inc()
}

// RecordAction counts an action outcome
func (m *Metrics) RecordAction(kind, outcome string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(kind, outcome).Inc()
}

// ExecStarted and ExecFinished bracket a running exec action
func (m *Metrics) ExecStarted() {
	if m == nil {
		return
	}
	m.ActionsInFlight.Inc()
}

func (m *Metrics) ExecFinished() {
	if m == nil {
		return
	}
	m.ActionsInFlight.Dec()
}
