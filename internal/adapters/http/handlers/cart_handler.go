package handlers

import (
	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the shopping cart and checkout
type CartHandler struct {
	carts         *services.CartService
	configService *services.StoreConfigService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *services.CartService, configService *services.StoreConfigService) *CartHandler {
	return &CartHandler{carts: carts, configService: configService}
}

// CartPage is the cart view
type CartPage struct {
	services.CartView
	Resumen services.CartSummary `json:"resumen"`
}

// QuantityRequest is the body of add and update
type QuantityRequest struct {
	ProductoID int64 `json:"productoId"`
	Cantidad   int   `json:"cantidad"`
}

func (h *CartHandler) page(c *fiber.Ctx, cart *domain.Cart) (CartPage, error) {
	cfg, err := h.configService.Get(c.UserContext())
	if err != nil {
		return CartPage{}, err
	}
	view, err := h.carts.View(c.UserContext())
	if err != nil {
		return CartPage{}, err
	}
	if cart != nil {
		view.Cart = cart
	}
	return CartPage{CartView: view, Resumen: services.Summary(view.Cart, cfg.Comercio)}, nil
}

// View returns the cart with its totals box
// @Summary Cart
// @Tags Cart
// @Produce json
// @Success 200 {object} response.Response{data=CartPage}
// @Router /carrito [get]
func (h *CartHandler) View(c *fiber.Ctx) error {
	p, err := h.page(c, nil)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el carrito")
	}
	return response.Success(c, "", p)
}

// Count returns the number of units in the cart
// @Summary Cart badge
// @Tags Cart
// @Produce json
// @Success 200 {object} response.Response
// @Router /carrito/cantidad [get]
func (h *CartHandler) Count(c *fiber.Ctx) error {
	n, err := h.carts.Count(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo contar el carrito")
	}
	return response.Success(c, "", fiber.Map{"cantidad": n})
}

// Add adds a product to the cart
// @Summary Add to cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body QuantityRequest true "Product and quantity"
// @Success 200 {object} response.Response{data=CartPage}
// @Failure 400 {object} response.Response
// @Router /carrito/agregar [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}
	if req.ProductoID <= 0 {
		return response.ValidationFailed(c, map[string]string{"productoId": "Producto no válido"})
	}
	if req.Cantidad == 0 {
		req.Cantidad = 1
	}

	cart, err := h.carts.Add(c.UserContext(), req.ProductoID, req.Cantidad)
	if err != nil {
		return response.FromError(c, err, "No se pudo agregar el producto")
	}
	return h.respond(c, cart, "Producto agregado al carrito")
}

// UpdateQuantity sets the quantity of a cart line
// @Summary Update cart quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body QuantityRequest true "New quantity"
// @Success 200 {object} response.Response{data=CartPage}
// @Failure 400 {object} response.Response
// @Router /carrito/producto/{id} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	cart, err := h.carts.UpdateQuantity(c.UserContext(), id, req.Cantidad)
	if err != nil {
		return response.FromError(c, err, "No se pudo actualizar la cantidad")
	}
	return h.respond(c, cart, "Cantidad actualizada")
}

// Remove deletes a cart line
// @Summary Remove from cart
// @Tags Cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response{data=CartPage}
// @Router /carrito/producto/{id} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	cart, err := h.carts.Remove(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "No se pudo quitar el producto")
	}
	return h.respond(c, cart, "Producto eliminado del carrito")
}

// Clear empties the cart; requires ?confirmar=true
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Param confirmar query bool true "Confirmation"
// @Success 200 {object} response.Response{data=CartPage}
// @Failure 428 {object} response.Response
// @Router /carrito/vaciar [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart, err := h.carts.Clear(c.UserContext(), confirmed(c))
	if err != nil {
		return response.FromError(c, err, "No se pudo vaciar el carrito")
	}
	return h.respond(c, cart, "Carrito vaciado")
}

// VerifyStock checks the cart against current stock
// @Summary Verify stock
// @Tags Cart
// @Produce json
// @Success 200 {object} response.Response{data=domain.StockCheck}
// @Router /carrito/verificar-stock [get]
func (h *CartHandler) VerifyStock(c *fiber.Ctx) error {
	check, err := h.carts.VerifyStock(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo verificar el stock")
	}
	return response.Success(c, "", check)
}

// Checkout places the order and returns the receipt
// @Summary Checkout
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body domain.BillingData true "Billing data"
// @Success 201 {object} response.Response{data=domain.Receipt}
// @Failure 422 {object} response.Response
// @Router /carrito/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var billing domain.BillingData
	if err := c.BodyParser(&billing); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	receipt, err := h.carts.Checkout(c.UserContext(), billing)
	if err != nil {
		return response.FromError(c, err, "No se pudo completar la compra")
	}
	return response.Created(c, "Pedido "+receipt.NumeroPedido+" registrado", receipt)
}

func (h *CartHandler) respond(c *fiber.Ctx, cart *domain.Cart, message string) error {
	p, err := h.page(c, cart)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el carrito")
	}
	return response.Success(c, message, p)
}
