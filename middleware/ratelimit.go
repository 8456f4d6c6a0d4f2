package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts one hit for resource/id inside window and reports whether it is allowed.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errors.New("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return false, err
	}

	// a counter without expiry would block the caller for good
	if ttl.Val() < 0 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("set rate limit window: %w", err)
		}
	}
	return incr.Val() <= int64(limit), nil
}

// RateLimit allows limit requests per window for each user, or each IP for guests.
// Redis keeps the counters when rdb is set, fiber's in-memory limiter otherwise.
// A failing Redis lets the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, skip bool) fiber.Handler {
	if skip || limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	if rdb == nil {
		return limiter.New(limiter.Config{
			Max:          limit,
			Expiration:   window,
			KeyGenerator: rateLimitKey,
			LimitReached: tooManyRequests,
			Next:         skipRateLimit,
		})
	}

	return func(c *fiber.Ctx) error {
		if skipRateLimit(c) {
			return c.Next()
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, "app", rateLimitKey(c), limit, window)
		if err != nil {
			slog.WarnContext(c.UserContext(), "rate limit store unavailable", "error", err)
			return c.Next()
		}
		if !allowed {
			return tooManyRequests(c)
		}
		return c.Next()
	}
}

func rateLimitKey(c *fiber.Ctx) string {
	if uid := c.Locals("userID"); uid != nil {
		return fmt.Sprintf("user:%v", uid)
	}
	return "ip:" + c.IP()
}

func skipRateLimit(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/css/") ||
		strings.HasPrefix(c.Path(), "/js/") ||
		strings.HasPrefix(c.Path(), "/images/") ||
		c.Path() == "/metrics"
}

func tooManyRequests(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"status":  "error",
			"message": "rate limit exceeded",
			"data":    nil,
		})
	}
	return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests. Please slow down.")
}
