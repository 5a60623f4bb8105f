package routes

import (
	"github.com/gofiber/fiber/v2"

	"clipshare/interfaces/api/handlers"
)

func SetupFileRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/uploads/videos/:filename", h.FileHandler.ServeVideo)
}
