package middleware

import (
	"net/http"
	"strings"

	"jobboard/internal/api/policy"
	"jobboard/internal/api/service"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// AuthMiddleware validates the bearer token and stores the request's session
// in the gin context for handlers to pass into services.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(sessionKey, policy.Session{
			UserID:      claims.UserID,
			Role:        claims.Role,
			DisplayName: claims.FullName,
		})

		c.Next()
	}
}

// SessionFrom retrieves the session placed by AuthMiddleware. The zero session
// is unauthenticated and fails every policy check.
func SessionFrom(c *gin.Context) policy.Session {
	if v, exists := c.Get(sessionKey); exists {
		if s, ok := v.(policy.Session); ok {
			return s
		}
	}
	return policy.Session{}
}

// RequireRoles rejects requests whose session role is not in the list. Admin
// passes everywhere. Fine-grained ownership stays in the policy package; this
// only keeps obviously wrong roles off a route group.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if !session.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			c.Abort()
			return
		}
		if session.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		c.Abort()
	}
}
