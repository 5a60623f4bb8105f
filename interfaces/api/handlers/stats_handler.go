package handlers

import (
	"github.com/gofiber/fiber/v2"

	"clipshare/domain/dto"
	"clipshare/domain/services"
	"clipshare/pkg/metrics"
	"clipshare/pkg/utils"
)

type StatsHandler struct {
	videoService services.VideoService
	registry     *metrics.Registry
	storageMode  string
}

func NewStatsHandler(videoService services.VideoService, registry *metrics.Registry, storageMode string) *StatsHandler {
	return &StatsHandler{
		videoService: videoService,
		registry:     registry,
		storageMode:  storageMode,
	}
}

// GetStats GET /api/stats
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.videoService.GetStats(c.UserContext())
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.OK(c, &dto.StatsResponse{
		TotalVideos:     stats.TotalVideos,
		TotalViews:      stats.TotalViews,
		TotalLikes:      stats.TotalLikes,
		StorageMode:     h.storageMode,
		InsightsEnabled: h.videoService.InsightsEnabled(),
	})
}

// GetPerformance GET /api/stats/performance
// สรุป latency ของทุก operation จาก in-process registry
func (h *StatsHandler) GetPerformance(c *fiber.Ctx) error {
	return utils.OK(c, fiber.Map{
		"operations":      h.registry.Stats(),
		"slow_operations": h.registry.SlowOperations(1.0),
	})
}

// ResetPerformance DELETE /api/stats/performance
func (h *StatsHandler) ResetPerformance(c *fiber.Ctx) error {
	h.registry.Reset()
	return utils.OK(c, fiber.Map{"message": "Performance metrics reset"})
}
