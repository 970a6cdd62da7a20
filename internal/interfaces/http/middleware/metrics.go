package middleware

import "github.com/gin-gonic/gin"

// RequestObserver is satisfied by the metrics registry.
type RequestObserver interface {
	RequestStarted() func(method, route string, status int)
}

// Metrics labels requests by route template so ids do not explode cardinality.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := observer.RequestStarted()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(c.Request.Method, route, c.Writer.Status())
	}
}
