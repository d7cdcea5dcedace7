package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search backend metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entity_search",
			Name:      "backend_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"operation", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "entity_search",
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	SearchHitsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "entity_search",
			Name:      "hits_returned",
			Help:      "Number of entities returned per page",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 500},
		},
		[]string{"operation"},
	)

	CursorRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entity_search",
			Name:      "cursor_rejected_total",
			Help:      "Cursor tokens rejected before reaching the backend",
		},
		[]string{"reason"}, // "invalid" / "expired"
	)

	PointInTimeOpenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "entity_search",
			Name:      "point_in_time_opened_total",
			Help:      "Point in time handles opened for first scroll pages",
		},
	)
)

func init() {
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchHitsReturned)
	prometheus.MustRegister(CursorRejectedTotal)
	prometheus.MustRegister(PointInTimeOpenedTotal)
}

// ObserveSearch records one backend call.
func ObserveSearch(operation string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SearchRequestsTotal.WithLabelValues(operation, status).Inc()
	SearchRequestDuration.WithLabelValues(operation).Observe(seconds)
}
