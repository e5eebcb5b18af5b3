package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorJSON answers with {"error": msg} and the given status.
func ErrorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// InternalError logs err and answers with the generic message only.
func InternalError(c *fiber.Ctx, err error, msg string) error {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("request_id", c.Locals("requestid")).
		Msg(msg)

	return ErrorJSON(c, fiber.StatusInternalServerError, msg)
}
