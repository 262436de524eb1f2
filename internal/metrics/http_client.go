package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpClientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "neardata_client",
		Name:      "operations_total",
		Help:      "Count of upstream chain-data requests.",
	}, []string{"operation", "outcome"})
	httpClientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "neardata_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of upstream chain-data requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
)

// HTTPClient tracks metrics for requests to the chain-data service.
type HTTPClient struct{}

// NewHTTPClient constructs an HTTPClient metrics collector.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{}
}

// Observe records one request. outcome is "data", "missing" or "error".
func (m HTTPClient) Observe(operation, outcome string, started time.Time) {
	httpClientRequestsTotal.WithLabelValues(operation, outcome).Inc()
	httpClientRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}
