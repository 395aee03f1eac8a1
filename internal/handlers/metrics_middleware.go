package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestDurationBuckets = []float64{
	0.05, 0.1, 0.2, 0.4, 0.8, 1,
	1.5, 2, 3, 5,
}

// registerMetrics installs the prometheus request middleware and the
// /metrics endpoint on the router.
func registerMetrics(router *gin.Engine) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	respCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_responses_total",
			Help: "Count the number of HTTP responses.",
		},
		[]string{"method", "status", "path"})
	registry.MustRegister(respCounter)

	reqHistogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_duration_second",
			Help:    "Time to execute http requests",
			Buckets: requestDurationBuckets,
		},
		[]string{"method", "path"})
	registry.MustRegister(reqHistogram)

	router.Use(metricsMiddleware(reqHistogram, respCounter))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

// metricsMiddleware observes request duration and response counts. The
// route template is used as the path label so ids don't explode
// cardinality; unmatched routes collapse to "?".
func metricsMiddleware(histogram *prometheus.HistogramVec, counter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "?"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		histogram.With(prometheus.Labels{"method": method, "path": path}).Observe(time.Since(start).Seconds())
		counter.With(prometheus.Labels{"method": method, "status": status, "path": path}).Inc()
	}
}
