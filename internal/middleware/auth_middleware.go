package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Context keys set for authenticated requests.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "userRole"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			log.Printf("[WARN] JWTAuthMiddleware: token rejected: %v", err)
			if errors.Is(err, jwtlib.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		userID, _ := claims.UserID()
		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects authenticated users without the admin role. It must
// run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != models.RoleAdmin {
			log.Printf("[WARN] RequireAdmin: %q is not an admin", c.GetString(ContextUsername))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
