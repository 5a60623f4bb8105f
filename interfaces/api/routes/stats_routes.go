package routes

import (
	"github.com/gofiber/fiber/v2"

	"clipshare/interfaces/api/handlers"
)

func SetupStatsRoutes(api fiber.Router, h *handlers.Handlers) {
	stats := api.Group("/stats")

	stats.Get("/", h.StatsHandler.GetStats)
	stats.Get("/performance", h.StatsHandler.GetPerformance)
	stats.Delete("/performance", h.StatsHandler.ResetPerformance)
}
