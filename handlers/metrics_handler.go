package handlers

import (
	"github.com/carrentals/offer-backend/services"
	"github.com/carrentals/offer-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type MetricsHandler struct {
	Metrics *shared.RetrievalMetrics
	Cache   *services.CacheService
}

func NewMetricsHandler(metrics *shared.RetrievalMetrics, cache *services.CacheService) *MetricsHandler {
	return &MetricsHandler{Metrics: metrics, Cache: cache}
}

// GetMetrics returns a snapshot of the retrieval tier counters and cache size.
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	snapshot := h.Metrics.Snapshot()
	snapshot["cache_size"] = h.Cache.Size()

	return c.JSON(fiber.Map{
		"success": true,
		"data":    snapshot,
	})
}
