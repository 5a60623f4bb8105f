package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"clipshare/pkg/logger"
	"clipshare/pkg/metrics"
)

// LoggerMiddleware structured logging สำหรับทุก request
// บันทึก latency ลง metrics registry ด้วย (key ตาม method + route)
func LoggerMiddleware(registry *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		if registry != nil {
			registry.Observe(c.Method()+" "+c.Route().Path, latency)
		}

		logFunc := logger.InfoContext
		if status >= 500 {
			logFunc = logger.ErrorContext
		} else if status >= 400 {
			logFunc = logger.WarnContext
		}

		logFunc(c.UserContext(), "Request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency.String(),
			"ip", c.IP(),
		)

		return err
	}
}
