package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks API request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "miru_http_request_duration_seconds",
		Help:    "API request duration by route and status code",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route", "status"})
)

// ObserveHTTPRequest records one completed API request.
func ObserveHTTPRequest(route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
