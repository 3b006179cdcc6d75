package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "soulfilmes"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// UserMovies holds the counters of the user-movies modal.
type UserMovies struct {
	Loads     *prometheus.CounterVec
	Mutations *prometheus.CounterVec
	Sessions  prometheus.Gauge
}

// NewUserMovies creates and registers the modal metrics on reg.
func NewUserMovies(reg prometheus.Registerer) *UserMovies {
	m := &UserMovies{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Modal resource loads, by resource and result.",
		}, []string{"resource", "result"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Add and remove operations, by action and result.",
		}, []string{"action", "result"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "modal_sessions",
			Help:      "Operator sessions currently holding a modal.",
		}),
	}

	reg.MustRegister(m.Loads, m.Mutations, m.Sessions)
	return m
}

// Noop returns metrics registered on a throwaway registry.
func Noop() *UserMovies {
	return NewUserMovies(prometheus.NewRegistry())
}
