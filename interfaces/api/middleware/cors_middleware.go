package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"clipshare/pkg/config"
)

func CorsMiddleware(cfg *config.CORSConfig) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS,HEAD",
		AllowHeaders:  "Origin,Content-Type,Accept,Range,Cache-Control,X-Requested-With,X-Request-ID",
		ExposeHeaders: "Content-Length,Content-Range,Accept-Ranges,Content-Type,X-Request-ID",
	})
}
