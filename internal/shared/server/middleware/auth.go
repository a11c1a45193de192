package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
)

const actorKey = "actor"

// RequireToken enforces a static bearer token on a route group. When the
// configured token is empty the check is disabled, which keeps local
// development friction-free.
func RequireToken(token string) gin.HandlerFunc {
	expected := strings.TrimSpace(token)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if expected == "" {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		got := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Next()
	}
}

// Actor resolves the acting identity from the X-Actor header and stores it
// in context for audit trails.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader("X-Actor"))
		if actor == "" {
			actor = "anonymous"
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFromContext fetches the actor set by the Actor middleware.
func ActorFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(actorKey)
	if actor, ok := val.(string); ok {
		return actor
	}
	return ""
}
