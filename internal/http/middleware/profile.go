package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderProfileID carries the caller's account id, resolved by the upstream
// gateway.
const HeaderProfileID = "Profile-Id"

const callerKey = "caller_id"

func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderProfileID))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing profile id"})
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid profile id"})
			return
		}

		c.Set(callerKey, id)
		c.Next()
	}
}

func MustCaller(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
