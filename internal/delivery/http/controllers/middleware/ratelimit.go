package middleware

import (
	"Mumkin/pkg/logger"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per client IP in fixed Redis windows.
type RateLimiter struct {
	log    logger.Log
	client *redis.Client
}

func NewRateLimiter(log logger.Log, client *redis.Client) *RateLimiter {
	return &RateLimiter{log: log, client: client}
}

// Limit lets at most limit requests per window through. Requests pass when
// Redis is unreachable.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, c.ClientIP())

		count, err := rl.client.Incr(c, key).Result()
		if err != nil {
			rl.log.ErrorErr("rate limiter unavailable", err, "key", key)
			c.Next()
			return
		}
		if count == 1 {
			rl.client.Expire(c, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.client.TTL(c, key).Result()
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}
		c.Next()
	}
}
