package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request identifier between client and server
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey stores the identifier in the gin context
	CorrelationIDKey = "correlation_id"
)

// CorrelationID tags every request with an identifier so a balance mutation
// can be traced from its access log line to the handler's error envelope.
// A client-supplied identifier is kept, otherwise a fresh UUID is issued.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(CorrelationIDHeader, id)
		c.Set(CorrelationIDKey, id)

		c.Next()
	}
}

// GetCorrelationID returns the identifier set by CorrelationID, or an empty
// string when the middleware did not run for this request.
func GetCorrelationID(c *gin.Context) string {
	id, ok := c.Get(CorrelationIDKey)
	if !ok {
		return ""
	}
	s, _ := id.(string)
	return s
}
