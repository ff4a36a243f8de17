package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"velopark/internal/pkg/jwt"
	"velopark/internal/pkg/response"
)

// JWTAuth validates the bearer token and stores user_id and role in the
// request context for downstream handlers.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
