package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EdgesCreated counts accepted Connect calls and edges laid down by templates.
	EdgesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomgraph_edges_created_total",
		Help: "Total number of parent/child edges created.",
	})

	// EdgesRejected counts refused Connect calls by rule.
	EdgesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomgraph_edges_rejected_total",
		Help: "Total number of refused connection attempts, labelled by the rule that refused them.",
	}, []string{"rule"})

	// NodesCreated counts nodes added through the editor, entrances included.
	NodesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomgraph_nodes_created_total",
		Help: "Total number of room nodes created.",
	})

	// NodesRemoved counts nodes deleted through the editor.
	NodesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomgraph_nodes_removed_total",
		Help: "Total number of room nodes removed.",
	})

	// DocumentsOpen tracks documents held in memory between Open and Close.
	DocumentsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomgraph_documents_open",
		Help: "Number of graph documents currently held by the editor.",
	})

	// CatalogReloads counts successful room type catalog reloads.
	CatalogReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomgraph_catalog_reloads_total",
		Help: "Total number of successful room type catalog reloads.",
	})

	// RequestDuration is observed through ObserveRequest.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomgraph_request_duration_ms",
		Help:    "Editor RPC latency in milliseconds, labelled by method.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"method"})
)

// ObserveRequest records the latency of an editor RPC that started at start.
func ObserveRequest(method string, start time.Time) {
	RequestDuration.WithLabelValues(method).Observe(float64(time.Since(start).Microseconds()) / 1000)
}

// NewMetricsServer returns an HTTP server exposing GET /metrics on addr.
//
// Precondition: addr must be a valid listen address.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
