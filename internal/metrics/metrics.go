// Package metrics defines the Prometheus collectors of the trip service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors updated by the service layer.
type Metrics struct {
	// RPCs counts handled calls by procedure and result code.
	RPCs *prometheus.CounterVec

	// RPCDuration observes handler latency by procedure.
	RPCDuration *prometheus.HistogramVec

	// ExpensesAdded counts committed expenses.
	ExpensesAdded prometheus.Counter

	// ValidationFailures counts rejected expenses by field.
	ValidationFailures *prometheus.CounterVec

	// ExpensesSettled counts expenses cleared by the settle action.
	ExpensesSettled prometheus.Counter

	// PeopleRemoved counts removal attempts by outcome.
	PeopleRemoved *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripsplitter",
			Name:      "rpc_requests_total",
			Help:      "Handled RPCs by procedure and code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripsplitter",
			Name:      "rpc_duration_seconds",
			Help:      "RPC handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		ExpensesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsplitter",
			Name:      "expenses_added_total",
			Help:      "Expenses committed to a ledger.",
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripsplitter",
			Name:      "expense_validation_failures_total",
			Help:      "Expenses rejected by validation, by field.",
		}, []string{"field"}),
		ExpensesSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsplitter",
			Name:      "expenses_settled_total",
			Help:      "Expenses cleared by the settle action.",
		}),
		PeopleRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripsplitter",
			Name:      "person_removals_total",
			Help:      "Person removal attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.RPCs,
		m.RPCDuration,
		m.ExpensesAdded,
		m.ValidationFailures,
		m.ExpensesSettled,
		m.PeopleRemoved,
	)
	return m
}
