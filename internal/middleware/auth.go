package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextKind     = "kind"
)

// AuthRequired is a middleware that checks for a valid JWT token. Identity is
// taken from the verified token only; caller-supplied identity headers are
// never consulted.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextKind, claims.Role)

		c.Next()
	}
}

// CompanyRequired restricts a route to company-side accounts.
func CompanyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := c.Get(ContextKind)
		if !exists || kind != "company" {
			c.JSON(http.StatusForbidden, gin.H{"error": "company account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SeekerRequired restricts a route to job seeker accounts.
func SeekerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := c.Get(ContextKind)
		if !exists || kind != "seeker" {
			c.JSON(http.StatusForbidden, gin.H{"error": "job seeker account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}

// GetKind gets the current account kind from context
func GetKind(c *gin.Context) string {
	if kind, exists := c.Get(ContextKind); exists {
		return kind.(string)
	}
	return ""
}
