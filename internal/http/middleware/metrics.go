// Prometheus instrumentation for the HTTP surface.
//
// Collectors live under the nutrismart namespace. Labels stay coarse
// (method, registered route, status) so cardinality is bounded by the route
// table, and the latency buckets stretch to tens of seconds because the
// analyze path legitimately waits on a generation backend. Domain outcome
// counters (scored vs unscored analyses) live with the handlers that know
// the outcome; this file only measures traffic.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "nutrismart"

var (
	reqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	// Buckets reach past the generation timeout; most non-analyze routes
	// land in the sub-100ms range.
	reqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds by method and route.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"method", "route"},
	)

	reqInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_inflight",
			Help:      "Requests currently being served.",
		},
	)

	// Typical payloads: a few hundred bytes of error envelope, ~1 KiB per
	// analysis, tens of KiB for a history page.
	respBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Response body size in bytes by method and route.",
			Buckets:   []float64{256, 1 << 10, 4 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20},
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(reqTotal, reqDuration, reqInflight, respBytes)
}

// Metrics instruments every request. The route label uses the registered
// pattern (e.g. /api/v1/history/:id) and falls back to the raw URL path when
// no route matched, so 404 noise stays visible without exploding labels for
// matched traffic.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqInflight.Inc()
		defer reqInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		reqTotal.WithLabelValues(method, route, status).Inc()
		reqDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written; skip rather than record it.
		if size := c.Writer.Size(); size >= 0 {
			respBytes.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}
