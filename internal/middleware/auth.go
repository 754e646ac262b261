package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/services"
)

const (
	CtxUserID = "user_id"
)

// RequireUser — пользовательская сессия: подписанный JWT в httpOnly cookie.
// В отличие от голого userId в cookie, токен нельзя подделать без секрета.
func RequireUser(auth services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}
		claims, err := auth.ParseSessionToken(tokenStr, services.SessionKindUser)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}
		c.Set(CtxUserID, claims.SubjectID)
		c.Next()
	}
}
