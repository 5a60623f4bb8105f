package routes

import (
	"github.com/gofiber/fiber/v2"

	"clipshare/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, storageMode string) {
	SetupHealthRoutes(app, storageMode)

	api := app.Group("/api")

	SetupVideoRoutes(api, h)
	SetupStatsRoutes(api, h)

	// File serving อยู่นอก /api group (URL เดียวกับที่เก็บใน record)
	SetupFileRoutes(app, h)
}
