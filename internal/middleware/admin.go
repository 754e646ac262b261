package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/authz"
	"onerinn/internal/services"
)

const (
	CtxAdminID        = "admin_id"
	CtxAdminRole      = "admin_role"
	CtxAdminSessionID = "admin_session_id"
)

// RequireAdmin — админская сессия: opaque id в cookie, запись в БД.
// Срок и активность аккаунта проверяет LookupSession при каждом запросе.
func RequireAdmin(admins services.AdminService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}
		acc, err := admins.LookupSession(sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}
		c.Set(CtxAdminID, acc.ID)
		c.Set(CtxAdminRole, acc.Role)
		c.Set(CtxAdminSessionID, sessionID)
		c.Next()
	}
}

// RequireSuperadmin вешается поверх RequireAdmin на денежные операции
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(CtxAdminRole)
		roleStr, _ := role.(string)
		if !authz.CanManageMoney(roleStr) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN"})
			return
		}
		c.Next()
	}
}
