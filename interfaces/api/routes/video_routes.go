package routes

import (
	"github.com/gofiber/fiber/v2"

	"clipshare/interfaces/api/handlers"
)

func SetupVideoRoutes(api fiber.Router, h *handlers.Handlers) {
	videos := api.Group("/videos")

	videos.Get("/", h.VideoHandler.List)
	videos.Post("/upload", h.VideoHandler.Upload)
	videos.Get("/:id", h.VideoHandler.GetByID)
	videos.Post("/:id/view", h.VideoHandler.IncrementViews)
	videos.Post("/:id/like", h.VideoHandler.IncrementLikes)
	videos.Post("/:id/analyze", h.InsightHandler.Analyze)
	videos.Get("/:id/transcript", h.InsightHandler.GetTranscript)

	api.Get("/search", h.VideoHandler.Search)
}
