// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stash"

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests        *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
	GroupsCompleted    prometheus.Counter
	GroupContributions prometheus.Counter
	GroupRefunds       prometheus.Counter
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		GroupsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_saves_completed_total",
			Help:      "Group plans that reached their target.",
		}),
		GroupContributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_contributions_total",
			Help:      "Accepted group contributions.",
		}),
		GroupRefunds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_refunds_total",
			Help:      "Members that left a group with a refund.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.GroupsCompleted,
		m.GroupContributions,
		m.GroupRefunds,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
