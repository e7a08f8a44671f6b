package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/session"
)

// Session resolves the browser session from the signed cookie, issuing a
// fresh one when the cookie is missing or fails verification. The session
// ID is placed on the request context for the store and the log handler.
func Session(cookies *session.Cookies, secure bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""
		if value, err := c.Cookie(session.CookieName); err == nil {
			sid, _ = cookies.Verify(value)
		}

		if sid == "" {
			newSID, value, err := cookies.Issue()
			if err != nil {
				logger.ErrorContext(c.Request.Context(), "issue session cookie", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Internal server error"})
				return
			}
			sid = newSID
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, value, cookies.TTLSeconds(), "/", "", secure, true)
		}

		ctx := session.WithID(c.Request.Context(), sid)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
