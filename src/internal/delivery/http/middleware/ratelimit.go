package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"wallet-service/src/pkg/log"
)

// CounterStore is the shared fixed-window counter behind the rate
// limiter. Backing it with redis keeps the limit correct across every
// running instance of the service, not just within one process.
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	client redis.UniversalClient
}

func NewRedisCounter(client redis.UniversalClient) CounterStore {
	return &redisCounter{client: client}
}

func (r *redisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit rejects a client IP that exceeds limit requests per window.
// The counter key includes the window bucket, so entries expire on their
// own and the window resets cleanly.
func RateLimit(store CounterStore, limit int64, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("RATELIMIT:%s:%s:%d", ctx.Path(), ctx.IP(), bucket)

		count, err := store.Incr(ctx.Context(), key, window)
		if err != nil {
			// counting backend down: let the request through rather
			// than turning away paying supporters
			log.GetLogger().Error("ratelimit", fmt.Sprintf("counter error: %v", err), "RateLimit", key)
			return ctx.Next()
		}

		if count > limit {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "rate limit exceeded, try again shortly",
			})
		}
		return ctx.Next()
	}
}
