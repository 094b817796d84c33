package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and catalog Prometheus metrics.
var (
	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seriedex",
			Name:      "search_outcomes_total",
			Help:      "Search outcomes by kind",
		},
		[]string{"outcome"}, // "match" / "ambiguous" / "no_match"
	)

	CatalogRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "seriedex",
			Name:      "catalog_records",
			Help:      "Number of records in the active catalog snapshot",
		},
	)

	CatalogLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "seriedex",
			Name:      "catalog_load_duration_seconds",
			Help:      "Catalog load or refresh duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	BCRPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seriedex",
			Name:      "bcrp_requests_total",
			Help:      "Total requests to the BCRP upstream",
		},
		[]string{"endpoint", "status"},
	)

	BCRPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seriedex",
			Name:      "bcrp_request_duration_seconds",
			Help:      "BCRP upstream request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search, catalog and upstream client metrics.
// Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(CatalogRecords)
	prometheus.MustRegister(CatalogLoadDuration)
	prometheus.MustRegister(BCRPRequestsTotal)
	prometheus.MustRegister(BCRPRequestDuration)
	searchMetricsRegistered = true
}
