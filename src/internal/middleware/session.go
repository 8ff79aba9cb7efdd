package middleware

import (
	"net/http"

	"handyhub-session-svc/src/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const bearerTokenKey = "bearer_token"

// SessionReader reports whether a session is active.
type SessionReader interface {
	IsLoggedIn() bool
}

// RequireLoggedIn rejects requests while no session is active.
func RequireLoggedIn(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsLoggedIn() {
			routeName, _ := c.Get("route_name")
			logrus.WithField("route", routeName).Debug("Request rejected, no active session")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "No active session - please login",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CaptureBearer stores the Authorization bearer token, if any, in the context.
func CaptureBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := token.ExtractBearer(c.GetHeader("Authorization")); tok != "" {
			c.Set(bearerTokenKey, tok)
		}
		c.Next()
	}
}

// BearerToken returns the token captured by CaptureBearer.
func BearerToken(c *gin.Context) string {
	return c.GetString(bearerTokenKey)
}
