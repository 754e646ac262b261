package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"onerinn/internal/ratelimit"
)

// RateLimitByIP ограничивает частоту запросов на эндпоинт с одного IP.
// Ошибка лимитера трактуется как отказ: на auth-путях fail-open недопустим.
func RateLimitByIP(limiter ratelimit.Limiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := prefix + ":ip:" + c.ClientIP()
		ok, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Printf("[ratelimit] %s: %v", key, err)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "TOO_MANY_REQUESTS"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "TOO_MANY_REQUESTS"})
			return
		}
		c.Next()
	}
}
