package handlers

import (
	"strings"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/pagination"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// StorefrontHandler serves the public pages
type StorefrontHandler struct {
	catalog       *services.CatalogService
	configService *services.StoreConfigService
	sessions      *services.SessionService
	log           logrus.FieldLogger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(catalog *services.CatalogService, configService *services.StoreConfigService, sessions *services.SessionService, log logrus.FieldLogger) *StorefrontHandler {
	return &StorefrontHandler{catalog: catalog, configService: configService, sessions: sessions, log: log}
}

// HomeView is the landing page
type HomeView struct {
	Tienda          domain.GeneralInfo `json:"tienda"`
	Hero            domain.HeroBanner  `json:"hero"`
	Caracteristicas []domain.Highlight `json:"caracteristicas"`
	Destacados      []domain.Product   `json:"destacados"`
	Redes           domain.SocialLinks `json:"redes"`
	Flash           string             `json:"flash,omitempty"`
	Session         sessionView        `json:"session"`
}

// Home returns the landing page
// @Summary Home page
// @Description Hero banner, highlights and the top 3 featured products
// @Tags Storefront
// @Produce json
// @Success 200 {object} response.Response{data=HomeView}
// @Router / [get]
func (h *StorefrontHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()

	cfg, err := h.configService.Get(ctx)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar la tienda")
	}

	view := HomeView{
		Tienda:          cfg.General,
		Hero:            cfg.Hero,
		Caracteristicas: cfg.Caracteristicas,
		Destacados:      []domain.Product{},
		Redes:           cfg.Redes,
		Flash:           h.sessions.PopFlash(ctx),
		Session:         currentSessionView(c),
	}

	// The landing page still renders when the backend is down
	if cfg.Funciones.MostrarDestacados {
		top, err := h.catalog.Top3(ctx)
		if err != nil {
			h.log.WithError(err).Warn("⚠️ featured products unavailable")
		} else {
			view.Destacados = top
		}
	}

	return response.Success(c, "", view)
}

// Catalog lists products filtered on the server
// @Summary Catalog
// @Tags Storefront
// @Produce json
// @Param nombre query string false "Search term"
// @Param categoria query string false "Category"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /catalogo [get]
func (h *StorefrontHandler) Catalog(c *fiber.Ctx) error {
	ctx := c.UserContext()
	params := pagination.GetParams(c)

	filter := domain.ProductFilter{
		Search:    strings.TrimSpace(c.Query("nombre")),
		Categoria: strings.TrimSpace(c.Query("categoria")),
	}

	products, err := h.catalog.List(ctx, filter)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el catálogo")
	}

	cfg, err := h.configService.Get(ctx)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar la tienda")
	}
	page := pagination.Paginate(catalogItems(products, cfg.Funciones.MostrarStock), params)
	return response.Success(c, "", fiber.Map{
		"productos":  page.Data,
		"meta":       page.Meta,
		"filtro":     filter,
		"categorias": cfg.Categorias,
	})
}

// Product returns the product detail page
// @Summary Product detail
// @Tags Storefront
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response{data=domain.Product}
// @Failure 404 {object} response.Response
// @Router /productos/{id} [get]
func (h *StorefrontHandler) Product(c *fiber.Ctx) error {
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

// CatalogItem is a product as listed in the catalog. Stock is omitted when
// the store only shows availability.
type CatalogItem struct {
	domain.Product
	Stock      *int `json:"stock,omitempty"`
	Disponible bool `json:"disponible"`
}

func catalogItems(products []domain.Product, showStock bool) []CatalogItem {
	out := make([]CatalogItem, len(products))
	for i, p := range products {
		out[i] = CatalogItem{Product: p, Disponible: p.Stock > 0}
		if showStock {
			stock := p.Stock
			out[i].Stock = &stock
		} else {
			out[i].Product.Stock = 0
		}
	}
	return out
}
