package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/logger"
)

// RateLimit is a redis-backed fixed-window limiter keyed by client IP.
// With a nil client (redis not configured) it is a no-op; a redis outage
// also lets requests through rather than failing them.
func RateLimit(client *redis.Client, max int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.FromGin(c).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(max) {
			httperr.Abort(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
