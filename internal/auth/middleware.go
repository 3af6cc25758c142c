package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session_id"

const contextKeyUserID = "user_id"

// UserIDFromContext returns the user ID RequireSession stored on the
// request context, or 0 for an unauthenticated request.
func UserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(contextKeyUserID)
}

// RequireSession resolves the session cookie against the store and puts the
// owning user ID on the context. Missing or stale sessions get a 401.
func RequireSession(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(sessionCookieName)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, ok := sessions.GetUserID(c.Request.Context(), sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
