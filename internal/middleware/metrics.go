package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/metrics"
)

// RequestMetrics records the count and latency of each request, labelled by
// the matched route template rather than the raw path.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
