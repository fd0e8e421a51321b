package middleware

import (
	"fmt"
	"time"

	"github.com/creatorlink/backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware caps each client at cfg.RateLimitPerMinute
// requests per path per minute, counted in redis. Redis trouble fails
// open: throttling protects capacity, it is not a correctness gate.
func RateLimitMiddleware(rdb *redis.Client, cfg *config.Config) fiber.Handler {
	const window = time.Minute
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("creatorlink:rl:%s:%s", c.IP(), c.Path())

		count, err := rdb.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			rdb.Expire(c.Context(), key, window)
		}
		if count > int64(cfg.RateLimitPerMinute) {
			ttl, _ := rdb.TTL(c.Context(), key).Result()
			if ttl > 0 {
				c.Set("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
