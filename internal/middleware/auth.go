package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/security"
)

const claimsKey = "access_claims"

// Authorizer validates a bearer token against signature, expiry and the
// denylist. Implemented by the auth service.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*security.AccessClaims, error)
}

func Auth(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing bearer token",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := authorizer.Authorize(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or revoked token",
			})
			return
		}

		c.Set(claimsKey, *claims)
		c.Next()
	}
}

// CurrentClaims returns the access claims set by Auth.
func CurrentClaims(c *gin.Context) (security.AccessClaims, bool) {
	val, exists := c.Get(claimsKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := val.(security.AccessClaims)
	return claims, ok
}
