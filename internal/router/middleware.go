package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopfront/pkg/global"
	"shopfront/pkg/session"
)

// SessionHeader carries the visitor's session id. It keys every store's
// persisted state, for guests and signed-in users alike.
const SessionHeader = "X-Session-ID"

const sidKey = "sid"

// SessionID ensures every request carries a session id, minting one for
// first-time visitors and echoing it back so the client can hold onto it.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			sid = uuid.NewString()
		}
		c.Set(sidKey, sid)
		c.Header(SessionHeader, sid)
		c.Next()
	}
}

// RequireSession rejects requests from visitors who are not signed in.
func RequireSession(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetString(sidKey)
		if sessions.Current(c.Request.Context(), sid) == nil {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Please login to proceed with checkout", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
