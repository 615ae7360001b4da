package middleware

import (
	"net/http"
	"strings"

	"github.com/agrolink/farmgate/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *services.AuthService
	testMode    bool
}

func NewAuthMiddleware(authService *services.AuthService, testMode bool) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		testMode:    testMode,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.testMode {
			email := c.GetHeader("X-Test-Email")
			if email == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Test-Email header required in test mode"})
				c.Abort()
				return
			}
			c.Set("email", email)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("email", claims.Email)
		c.Set("userID", claims.Subject)
		c.Next()
	}
}

func GetEmail(c *gin.Context) string {
	email, exists := c.Get("email")
	if !exists {
		return ""
	}
	return email.(string)
}
