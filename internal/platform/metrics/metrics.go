// Package metrics owns the prometheus registry and the collectors shared across services
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles the collectors the pipeline reports into
type Set struct {
	Registry *prometheus.Registry

	// StoragePut observes each backend put by backend and outcome
	StoragePut *prometheus.HistogramVec

	// WalletConnects counts connect attempts by outcome code
	WalletConnects *prometheus.CounterVec

	// LedgerCalls observes ledger gateway calls by operation and outcome
	LedgerCalls *prometheus.HistogramVec

	// Registrations counts orchestrated registrations by trigger and state
	Registrations *prometheus.CounterVec

	// InFlight is the number of registrations currently running
	InFlight prometheus.Gauge
}

var (
	defOnce sync.Once
	def     *Set
)

// New builds a Set on a fresh registry, tests use this to avoid global state
func New() *Set {
	reg := prometheus.NewRegistry()
	s := &Set{
		Registry: reg,
		StoragePut: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ipvault",
			Subsystem: "storage",
			Name:      "put_seconds",
			Help:      "Latency of storage backend puts.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"backend", "outcome"}),
		WalletConnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipvault",
			Subsystem: "wallet",
			Name:      "connects_total",
			Help:      "Wallet connect attempts by outcome.",
		}, []string{"outcome"}),
		LedgerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ipvault",
			Subsystem: "ledger",
			Name:      "call_seconds",
			Help:      "Latency of ledger gateway calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "outcome"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipvault",
			Name:      "registrations_total",
			Help:      "Orchestrated registrations by trigger and terminal state.",
		}, []string{"trigger", "state"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipvault",
			Name:      "registrations_in_flight",
			Help:      "Registrations currently in flight on this instance.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.StoragePut,
		s.WalletConnects,
		s.LedgerCalls,
		s.Registrations,
		s.InFlight,
	)
	return s
}

// Default returns the process wide Set
func Default() *Set {
	defOnce.Do(func() { def = New() })
	return def
}

// Handler serves the registry in the prometheus text format
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})
}

// Outcome maps an error to a low cardinality label
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
