package http

import (
	"net/http"
	"strconv"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthRateLimit throttles the anonymous auth endpoints per client IP. The
// limiter fails open: an unreachable redis must not lock everyone out.
func AuthRateLimit(rdb *redis.Client, cfg config.RateLimitConfig) fiber.Handler {
	if !cfg.Enabled || rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	limiter := redis_rate.NewLimiter(rdb)
	limit := redis_rate.Limit{
		Rate:   cfg.AuthPerMinute,
		Burst:  cfg.AuthBurst,
		Period: time.Minute,
	}

	return func(c *fiber.Ctx) error {
		res, err := limiter.Allow(c.UserContext(), "ratelimit:auth:"+c.IP(), limit)
		if err != nil {
			return c.Next()
		}
		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return apperrors.NewDomainError("RATE_LIMITED", "too many requests", http.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
