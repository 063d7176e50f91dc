package handlers

import (
	"strconv"

	"tienda-console/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "Identificador no válido")
	}
	return id, nil
}

// confirmed reads the explicit confirmation flag of destructive actions
func confirmed(c *fiber.Ctx) bool {
	return c.QueryBool("confirmar", false)
}
