package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/utils"
	"github.com/repustack/repustack/backend/pkg/response"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ContextUserID     = "user_id"
	ContextBusinessID = "business_id"
	ContextUsername   = "username"
	ContextRole       = "role"
)

// AuthRequired validates the bearer token and loads its claims into the
// request context. Every business-scoped handler reads the business id
// from here rather than trusting anything in the request body.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextBusinessID, claims.BusinessID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// AdminRequired gates the admin surface. It runs after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := c.Get(ContextRole); !ok || role != "admin" {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID returns the authenticated user id, or 0 outside AuthRequired.
func GetUserID(c *gin.Context) uint {
	if id, ok := c.Get(ContextUserID); ok {
		return id.(uint)
	}
	return 0
}

// GetBusinessID returns the authenticated user's business scope.
func GetBusinessID(c *gin.Context) uint {
	if id, ok := c.Get(ContextBusinessID); ok {
		return id.(uint)
	}
	return 0
}

func GetUsername(c *gin.Context) string {
	if name, ok := c.Get(ContextUsername); ok {
		return name.(string)
	}
	return ""
}

func GetRole(c *gin.Context) string {
	if role, ok := c.Get(ContextRole); ok {
		return role.(string)
	}
	return ""
}
