package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for request traffic stats, shared with the health handlers.
const (
	KeyReqTotal  = "artisan:health:req_total"
	KeyReqErrors = "artisan:health:req_errors"
	KeyResTime   = "artisan:health:res_time_total"
	KeyResCount  = "artisan:health:res_count"
	KeyStartTime = "artisan:health:start_time"
	KeyLastReq   = "artisan:health:last_request"
	KeyErrorLog  = "artisan:health:error_log"
)

const maxErrorLog = 50

// HealthMarker records request stats in Redis (skip /, /health*, favicon). Server errors
// are pushed onto a capped error log. A nil client turns the middleware into a no-op.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.Next()
		}
		if isHealthPath(c.Path()) {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   time.Now(),
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_, _ = rdb.Set(ctx, KeyLastReq, b, 0).Result()
		_, _ = rdb.Incr(ctx, KeyReqTotal).Result()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Result()
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		if status >= 500 {
			_, _ = rdb.Incr(ctx, KeyReqErrors).Result()
			entry, _ := json.Marshal(map[string]interface{}{
				"time":   time.Now(),
				"path":   c.OriginalURL(),
				"method": c.Method(),
				"status": status,
			})
			_, _ = rdb.LPush(ctx, KeyErrorLog, entry).Result()
			_, _ = rdb.LTrim(ctx, KeyErrorLog, 0, maxErrorLog-1).Result()
		}
		return err
	}
}

func isHealthPath(path string) bool {
	return path == "/" || path == "/reset" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon")
}
