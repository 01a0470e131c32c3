package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/identity"
)

// AuthMiddleware validates the Authorization header against the identity
// service and stores the resolved user id on the request context.
func AuthMiddleware(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		profile, err := resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", profile.UserID)
		c.Next()
	}
}
