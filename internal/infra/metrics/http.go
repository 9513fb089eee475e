package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetricsMiddleware records request count, latency and in-flight requests
// on reg. The route label is the route template, so /api/obras/:id stays one
// series no matter how many ids are requested. A nil registry gives a no-op.
func HTTPMetricsMiddleware(reg *prometheus.Registry) gin.HandlerFunc {
	if reg == nil {
		return func(c *gin.Context) { c.Next() }
	}

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coleccion_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coleccion_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	requestsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coleccion_http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed.",
	})

	reg.MustRegister(requestsTotal, requestDuration, requestsInFlight)

	return func(c *gin.Context) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
