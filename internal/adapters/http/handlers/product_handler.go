package handlers

import (
	"strings"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/pagination"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles admin product management
type ProductHandler struct {
	catalog *services.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// FeaturedRequest toggles the featured flag
type FeaturedRequest struct {
	Destacado bool `json:"destacado"`
}

// List lists products (admin)
// @Summary List products
// @Tags Admin
// @Produce json
// @Param nombre query string false "Search term"
// @Param categoria query string false "Category"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := domain.ProductFilter{
		Search:    strings.TrimSpace(c.Query("nombre")),
		Categoria: strings.TrimSpace(c.Query("categoria")),
	}

	products, err := h.catalog.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err, "No se pudieron cargar los productos")
	}
	return response.Success(c, "", pagination.Paginate(products, params))
}

// Get returns one product for the edit form
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	p, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el producto")
	}
	return response.Success(c, "", p)
}

// Create creates a product
// @Summary Create product
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body domain.Product true "Product"
// @Success 201 {object} response.Response{data=domain.Product}
// @Failure 422 {object} response.Response
// @Router /admin/productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req domain.Product
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	p, err := h.catalog.Create(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err, "No se pudo crear el producto")
	}
	return response.Created(c, "Producto creado", p)
}

// Update edits a product
// @Summary Update product
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body domain.Product true "Product"
// @Success 200 {object} response.Response{data=domain.Product}
// @Router /admin/productos/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	var req domain.Product
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	p, err := h.catalog.Update(c.UserContext(), id, req)
	if err != nil {
		return response.FromError(c, err, "No se pudo actualizar el producto")
	}
	return response.Success(c, "Producto actualizado", p)
}

// Delete removes a product; requires ?confirmar=true
// @Summary Delete product
// @Tags Admin
// @Produce json
// @Param id path int true "Product ID"
// @Param confirmar query bool true "Confirmation"
// @Success 200 {object} response.Response
// @Failure 428 {object} response.Response
// @Router /admin/productos/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	if err := h.catalog.Delete(c.UserContext(), id, confirmed(c)); err != nil {
		return response.FromError(c, err, "No se pudo eliminar el producto")
	}
	return response.Success(c, "Producto eliminado", nil)
}

// SetFeatured marks or unmarks a product as featured
// @Summary Toggle featured
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body FeaturedRequest true "Featured flag"
// @Success 200 {object} response.Response{data=domain.Product}
// @Router /admin/productos/{id}/destacado [patch]
func (h *ProductHandler) SetFeatured(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	var req FeaturedRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	p, err := h.catalog.SetFeatured(c.UserContext(), id, req.Destacado)
	if err != nil {
		return response.FromError(c, err, "No se pudo actualizar el producto")
	}
	return response.Success(c, "Producto actualizado", p)
}
