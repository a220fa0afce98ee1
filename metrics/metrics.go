// Package metrics wraps the Prometheus counters/gauges exposed by the
// server: connection count, commands executed by name, and commands
// currently in flight.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the private registry every collector in this package is
// registered against, so the process's /metrics endpoint only exposes
// respd's own series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ConnectionsTotal counts accepted TCP connections.
	ConnectionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "respd_connections_total",
		Help: "Total TCP connections accepted.",
	})

	// CommandsTotal counts executed commands, labeled by command name.
	CommandsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "respd_commands_total",
		Help: "Total commands executed, by command name.",
	}, []string{"command"})

	// CommandsInProgress gauges commands currently being executed.
	CommandsInProgress = factory.NewGauge(prometheus.GaugeOpts{
		Name: "respd_commands_inprogress",
		Help: "Commands currently executing.",
	})
)

// Handler returns the http.Handler that serves Registry's series.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
