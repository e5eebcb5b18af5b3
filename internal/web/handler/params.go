package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParamID parses the :id route parameter. Only positive integers are accepted.
func ParamID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
