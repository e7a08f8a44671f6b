package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/requestid"
)

// RequestID resolves the correlation ID for the request, places it on the
// context for the log handler, and echoes it back to the page.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.Resolve(c.GetHeader(requestid.Header))
		c.Request = c.Request.WithContext(requestid.NewContext(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
