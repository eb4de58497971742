package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SearchesTotal counts search calls by document type and outcome.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metadex",
			Name:      "searches_total",
			Help:      "Total number of search calls",
		},
		[]string{"document_type", "outcome"},
	)

	// SearchDuration tracks end-to-end search latency per document type.
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metadex",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search call duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"document_type"},
	)
)

// RegisterSearchMetrics registers search metrics explicitly (no init()).
func RegisterSearchMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
}
