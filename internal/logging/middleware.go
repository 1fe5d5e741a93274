package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger はHTTPリクエストをslogで記録するGinミドルウェアを返します。
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		)

		for _, e := range c.Errors {
			logger.Error("request error", slog.String("error", e.Error()))
		}
	}
}
