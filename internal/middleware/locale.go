package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"onerinn/internal/i18n"
)

const CtxLocale = "locale"

// Locale — локаль из ?lang= или Accept-Language; тело запроса
// (поле locale) обрабатывают сами хендлеры, где оно есть
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Query("lang")
		if locale == "" {
			al := c.GetHeader("Accept-Language")
			if i := strings.IndexAny(al, ",;-"); i > 0 {
				al = al[:i]
			}
			locale = strings.TrimSpace(al)
		}
		c.Set(CtxLocale, i18n.Normalize(locale))
		c.Next()
	}
}

func GetLocale(c *gin.Context) string {
	if v, ok := c.Get(CtxLocale); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "ru"
}
