package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"filechat-lite/internal/observability"
)

// Metrics records request counts and latencies by matched route. Unmatched
// paths share a single label so they cannot inflate cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.Requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.Duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
