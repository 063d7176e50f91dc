package middleware

import (
	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Maintenance closes the storefront to everyone but admins while the
// maintenance flag of the store configuration is on
func Maintenance(configService *services.StoreConfigService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c).Role() == domain.RoleAdmin {
			return c.Next()
		}
		cfg, err := configService.Get(c.UserContext())
		if err == nil && cfg.Funciones.ModoMantenimiento {
			return response.Error(c, fiber.StatusServiceUnavailable, "La tienda está en mantenimiento, vuelve pronto")
		}
		return c.Next()
	}
}
