package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the dedicated registry for all Autoscope metrics. Keeping it
// separate from prometheus.DefaultRegisterer lets tests construct isolated
// hub instances without duplicate-registration panics.
var Registry = prometheus.NewRegistry()

var (
	// RequestsTotal counts resource requests by operation and outcome.
	// outcome: ok / not_found / data_not_found / category_not_allowed /
	// path_traversal_denied / file_not_found / internal
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoscope_requests_total",
			Help: "Total number of resource requests handled, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// RequestDuration observes resource request latency by operation.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autoscope_request_duration_seconds",
			Help:    "Latency of resource requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// IngestTotal counts MQTT ingest messages by kind and outcome.
	// kind: data/fault, outcome: ok/malformed/rejected
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoscope_ingest_total",
			Help: "Total number of MQTT ingest messages, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// BulkBytesServed counts bytes streamed out of bulk-data categories.
	BulkBytesServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "autoscope_bulk_bytes_served_total",
			Help: "Total number of bulk-data bytes streamed to clients.",
		},
	)

	// Entities reports the number of loaded entities by kind.
	Entities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "autoscope_entities",
			Help: "Number of entities loaded from the seed document, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(RequestsTotal)
	Registry.MustRegister(RequestDuration)
	Registry.MustRegister(IngestTotal)
	Registry.MustRegister(BulkBytesServed)
	Registry.MustRegister(Entities)
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler returns the HTTP handler serving the registry, for mounting at
// /metrics on the hub server.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
