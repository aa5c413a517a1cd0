package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/pkg/redis"
	"github.com/Staunch-Software/Drs-backend/pkg/response"
)

// RateLimit caps requests per client IP within a sliding window, backed
// by Redis. Fails open when Redis is unavailable so an infra outage does
// not lock everyone out.
func RateLimit(rdb *redis.Client, logger *zap.Logger, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		ok, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			response.Error(c, 429, response.CodeRateLimited, "too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
