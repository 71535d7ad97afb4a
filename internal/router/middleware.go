package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Context key under which the authenticated user ID is stored. The platform
// in front of this service owns authentication; it places the user ID in
// the shared cookie session and this middleware only surfaces it.
const userIDContextKey = "userID"

// UserLoaderMiddleware surfaces the session's user ID, if any, into the
// request context. Requests without one proceed as guests.
func UserLoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(userIDContextKey).(string)
		if !ok || userID == "" {
			c.Next()
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// AuthRequired rejects requests that did not arrive with a known user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(userIDContextKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}
