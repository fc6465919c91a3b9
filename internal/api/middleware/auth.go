// Package middleware provides the gin middleware shared by all route
// groups.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/auth"
)

// userIDKey is the gin context key holding the authenticated user ID
const userIDKey = "auth_user_id"

// AuthRequired validates the bearer access token and stores the user ID
// on the request context
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "malformed authorization header")
			return
		}
		claims, err := tokens.Parse(parts[1], auth.TokenTypeAccess)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user ID set by AuthRequired
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(userIDKey)
	uid, _ := id.(int64)
	return uid
}
