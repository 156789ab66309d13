package middleware

import (
	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	adminIDKey   = contextKey("adminID")
	adminRoleKey = contextKey("adminRole")
)

// GetAdminIDFromContext retrieves the authenticated admin's ID from the Gin
// context. It returns the ID and a boolean indicating if it was found.
func GetAdminIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(adminIDKey))
	if !exists {
		return "", false
	}
	adminID, ok := val.(string)
	if !ok {
		return "", false
	}
	return adminID, true
}

// GetAdminRoleFromContext retrieves the authenticated admin's role from the
// Gin context.
func GetAdminRoleFromContext(c *gin.Context) (domain.AdminRole, bool) {
	val, exists := c.Get(string(adminRoleKey))
	if !exists {
		return "", false
	}
	role, ok := val.(domain.AdminRole)
	if !ok {
		return "", false
	}
	return role, true
}
