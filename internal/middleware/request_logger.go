package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamvault/streamvault/internal/logger"
)

// RequestLogger logs every admin API request with its outcome. Health
// checks are skipped to keep the log readable.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Debug("%s %s -> %d (%s, %d bytes)",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}

// ErrorLogger surfaces handler errors that would otherwise die inside gin.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logger.Error("Request error on %s %s: %v",
				c.Request.Method, c.Request.URL.Path, err.Err)
		}
	}
}
