package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clipshare/pkg/logger"
	"clipshare/pkg/utils"
)

// ErrorHandler แปลง error ที่หลุดมาถึง fiber เป็น {"error": message}
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= 500 {
			logger.ErrorContext(c.UserContext(), "Unhandled error",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}

		return utils.ErrorResponse(c, code, message)
	}
}
