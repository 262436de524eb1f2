package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Count of query API requests.",
	}, []string{"route", "code"})
	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Duration of query API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// API tracks metrics for the read-only query API.
type API struct{}

// NewAPI constructs an API metrics collector.
func NewAPI() *API {
	return &API{}
}

// Observe records one handled request.
func (m API) Observe(route string, code int, started time.Time) {
	apiRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	apiRequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}
