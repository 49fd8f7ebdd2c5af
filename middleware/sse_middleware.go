package middleware

import "github.com/gin-gonic/gin"

// SSEMiddleware sets the event-stream headers. Keep-alive pings are written
// by the stream handler itself, so the response writer only ever has one
// writing goroutine.
func SSEMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}
