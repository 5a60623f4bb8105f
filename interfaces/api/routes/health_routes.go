package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupHealthRoutes(app *fiber.App, storageMode string) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"mode":      storageMode,
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ClipShare API",
			"version": "1.0",
			"endpoints": fiber.Map{
				"health": "/api/health",
				"videos": "/api/videos",
				"upload": "/api/videos/upload",
				"search": "/api/search",
			},
			"mode":   storageMode,
			"status": "running",
		})
	})
}
