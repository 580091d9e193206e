package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UnmatchedRoute labels requests that reached no registered path, keeping
// label cardinality bounded.
const UnmatchedRoute = "unmatched"

// RouteKey is the gin context key a dispatcher sets to the matched route path.
const RouteKey = "runyx.route"

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		route := c.FullPath()
		if matched := c.GetString(RouteKey); matched != "" {
			route = matched
		}
		if route == "" {
			route = UnmatchedRoute
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, route, status, time.Since(start), reqSize)
	}
}
