package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/metrics"
)

// Metrics records per-route latency and counts. Unmatched routes collapse
// into a single label so URL scans cannot grow the cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start).Seconds()

		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(elapsed)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
