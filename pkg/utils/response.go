package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clipshare/domain/models"
)

// ErrorBody รูปแบบ error เดียวกันทุก endpoint: {"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// ========== Success Responses ==========

func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Not found"
	}
	return ErrorResponse(c, fiber.StatusNotFound, message)
}

func Conflict(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusConflict, message)
}

func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusServiceUnavailable, message)
}

func InternalServerError(c *fiber.Ctx) error {
	// ไม่ leak รายละเอียดภายในออกไป
	return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}

// DomainError map error taxonomy เป็น HTTP response
func DomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		return BadRequest(c, err.Error())
	case errors.Is(err, models.ErrConflict):
		return Conflict(c, err.Error())
	case errors.Is(err, models.ErrEnrichmentUnavailable):
		return ServiceUnavailable(c, err.Error())
	case errors.Is(err, models.ErrStorageUnavailable):
		return ErrorResponse(c, fiber.StatusBadGateway, err.Error())
	default:
		return InternalServerError(c)
	}
}
