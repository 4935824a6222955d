package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access log line per request. Ledger routes expose the
// account and currency in route and query parameters, which are attached
// when present so money movements can be filtered out of the access log.
// Responses with a 5xx status are logged at error level.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if id := GetCorrelationID(c); id != "" {
			attrs = append(attrs, "correlation_id", id)
		}
		if account := c.Param("account_id"); account != "" {
			attrs = append(attrs, "account_id", account)
		}
		if name := c.Param("name"); name != "" {
			attrs = append(attrs, "account", name)
		}
		if code := c.Query("currency"); code != "" {
			attrs = append(attrs, "currency", code)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("HTTP request", attrs...)
			return
		}
		logger.Info("HTTP request", attrs...)
	}
}
