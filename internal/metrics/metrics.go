package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector the service exports
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// BackendRequests counts calls to the Spirit11 REST backend by endpoint and status class
	BackendRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spirit11",
		Name:      "backend_requests_total",
		Help:      "Requests made to the Spirit11 backend.",
	}, []string{"method", "endpoint", "code"})

	// BackendLatency tracks backend round-trip time
	BackendLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spirit11",
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of requests to the Spirit11 backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	// RosterSaves counts roster submissions by outcome
	RosterSaves = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spirit11",
		Name:      "roster_saves_total",
		Help:      "Roster save attempts.",
	}, []string{"result"})

	// ChatRequests counts assistant requests by outcome
	ChatRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spirit11",
		Name:      "chat_requests_total",
		Help:      "Chat assistant requests.",
	}, []string{"result"})

	// PushReconnects counts reconnect attempts on the backend push channel
	PushReconnects = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "spirit11",
		Name:      "push_reconnects_total",
		Help:      "Reconnect attempts on the backend push channel.",
	})

	// PushNotifications counts notifications received from the push channel
	PushNotifications = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spirit11",
		Name:      "push_notifications_total",
		Help:      "Notifications received from the backend push channel.",
	}, []string{"entity", "action"})

	// EventSubscribers tracks open SSE and gRPC watch streams
	EventSubscribers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "spirit11",
		Name:      "event_subscribers",
		Help:      "Open realtime event streams.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// Result maps an error to the "ok"/"error" label used by the outcome counters
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
