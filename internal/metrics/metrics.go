package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tictactoe"

// Metrics holds the collectors shared by the coordinator and the transport.
type Metrics struct {
	RoomsActive       prometheus.Gauge
	ConnectionsActive prometheus.Gauge
	EventsTotal       *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	GamesFinished     *prometheus.CounterVec
	DroppedMessages   prometheus.Counter

	gatherer prometheus.Gatherer
}

// New - creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	that := &Metrics{
		RoomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Number of live rooms.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of open websocket connections.",
		}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound events by name.",
		}, []string{"event"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Error replies by reason.",
		}, []string{"reason"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by result.",
		}, []string{"result"}),
		DroppedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_messages_total",
			Help:      "Outbound messages dropped because a connection queue was full.",
		}),
		gatherer: registry,
	}

	registry.MustRegister(
		that.RoomsActive,
		that.ConnectionsActive,
		that.EventsTotal,
		that.ErrorsTotal,
		that.GamesFinished,
		that.DroppedMessages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return that
}

// Handler - exposes the registry in the Prometheus text format.
func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.gatherer, promhttp.HandlerOpts{})
}
