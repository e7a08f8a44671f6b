package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/session"
)

const errLoginRequired = "Please login to access this page"

// RequireDonor aborts with a login redirect when the session has no donor
// token. Pages behind it render nothing useful anonymously.
func RequireDonor(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.RequireDonor(c.Request.Context()); err != nil {
			abortToLogin(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with a login redirect unless the session carries an
// authenticated admin record with a token. The record's expiry field is
// informational; staleness is caught when the backend rejects the token.
func RequireAdmin(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.RequireAdmin(c.Request.Context()); err != nil {
			abortToLogin(c)
			return
		}
		c.Next()
	}
}

func abortToLogin(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    errLoginRequired,
		"redirect": "/login.html",
	})
}
