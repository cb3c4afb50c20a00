package health

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	catalogsvc "artisan-market/internal/application/catalog"
	healthsvc "artisan-market/internal/application/health"
	"artisan-market/internal/middleware"
	"artisan-market/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints. Rdb and Journal are optional.
type Handlers struct {
	Rdb            *redis.Client
	Journal        healthsvc.DBPinger
	Catalog        *catalogsvc.Store
	HealthAdminKey string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Rdb == nil {
		return response.Error(c, "Traffic stats are disabled", fiber.StatusNotFound, nil)
	}
	ctx := context.Background()
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON returns service status, runtime, traffic, catalog and dependency info.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	var stats healthsvc.CatalogStats
	if h.Catalog != nil {
		stats = healthsvc.CatalogStats{Listings: h.Catalog.Len(), ViewMode: string(h.Catalog.ViewMode())}
	}
	result := healthsvc.CollectHealth(context.Background(), h.Rdb, h.Journal, stats)
	return c.JSON(fiber.Map{
		"service":      "artisan-market-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"catalog":      result.Catalog,
		"dependencies": result.Dependencies,
	})
}

// Errors returns the most recent server errors recorded by the health marker.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Rdb == nil {
		return c.JSON([]interface{}{})
	}
	entries, err := h.Rdb.LRange(context.Background(), middleware.KeyErrorLog, 0, 49).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	errs := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if _ = json.Unmarshal([]byte(s), &m); m != nil {
			errs = append(errs, m)
		}
	}
	return c.JSON(errs)
}
