package handlers

import (
	"encoding/json"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles the store configuration pages
type SettingsHandler struct {
	configService *services.StoreConfigService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(configService *services.StoreConfigService) *SettingsHandler {
	return &SettingsHandler{configService: configService}
}

// Get returns the store configuration and its section names
// @Summary Store settings
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/configuracion [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	cfg, err := h.configService.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar la configuración")
	}
	return response.Success(c, "", fiber.Map{
		"configuracion": cfg,
		"secciones":     domain.StoreConfigSections,
	})
}

// Save replaces the whole configuration
// @Summary Save store settings
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body domain.StoreConfig true "Configuration"
// @Success 200 {object} response.Response{data=domain.StoreConfig}
// @Failure 422 {object} response.Response
// @Router /admin/configuracion [put]
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var req domain.StoreConfig
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}
	if err := h.configService.Save(c.UserContext(), req); err != nil {
		return response.FromError(c, err, "No se pudo guardar la configuración")
	}
	return response.Success(c, "Configuración guardada", req)
}

// SaveSection replaces one section of the configuration
// @Summary Save one settings section
// @Tags Admin
// @Accept json
// @Produce json
// @Param seccion path string true "Section" Enums(general, comercio, funciones, hero, caracteristicas, redes, categorias)
// @Success 200 {object} response.Response{data=domain.StoreConfig}
// @Failure 400 {object} response.Response
// @Router /admin/configuracion/{seccion} [put]
func (h *SettingsHandler) SaveSection(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return response.BadRequest(c, "Solicitud no válida")
	}

	cfg, err := h.configService.SaveSection(c.UserContext(), c.Params("seccion"), json.RawMessage(body))
	if err != nil {
		return response.FromError(c, err, "No se pudo guardar la sección")
	}
	return response.Success(c, "Sección guardada", cfg)
}

// Reset restores the defaults; requires ?confirmar=true
// @Summary Reset store settings
// @Tags Admin
// @Produce json
// @Param confirmar query bool true "Confirmation"
// @Success 200 {object} response.Response{data=domain.StoreConfig}
// @Failure 428 {object} response.Response
// @Router /admin/configuracion [delete]
func (h *SettingsHandler) Reset(c *fiber.Ctx) error {
	if !confirmed(c) {
		return response.FromError(c, domain.ErrConfirmationRequired, "")
	}
	cfg, err := h.configService.Reset(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo restablecer la configuración")
	}
	return response.Success(c, "Configuración restablecida", cfg)
}
