package handlers

import (
	"strings"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/pagination"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles admin order management
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List lists orders
// @Summary List orders
// @Tags Admin
// @Produce json
// @Param search query string false "Search term"
// @Param estadoPedido query string false "Order status"
// @Param estadoPago query string false "Payment status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/pedidos [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := domain.OrderFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		EstadoPedido: domain.OrderStatus(strings.ToUpper(c.Query("estadoPedido"))),
		EstadoPago:   domain.PaymentStatus(strings.ToUpper(c.Query("estadoPago"))),
	}

	orders, err := h.orders.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err, "No se pudieron cargar los pedidos")
	}

	page := pagination.Paginate(orders, params)
	return response.Success(c, "", fiber.Map{
		"pedidos":       page.Data,
		"meta":          page.Meta,
		"estadosPedido": domain.OrderStatuses,
		"estadosPago":   domain.PaymentStatuses,
	})
}

// Get returns an order with its lines
// @Summary Order detail
// @Tags Admin
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response{data=domain.Order}
// @Router /admin/pedidos/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	order, err := h.orders.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el pedido")
	}
	return response.Success(c, "", order)
}

// Stats returns the order counters
// @Summary Order stats
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=domain.OrderStats}
// @Router /admin/pedidos/stats [get]
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.orders.Stats(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudieron cargar las estadísticas")
	}
	return response.Success(c, "", stats)
}

// UpdateStatus changes order and/or payment status
// @Summary Update order status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param body body domain.StatusUpdate true "Statuses"
// @Success 200 {object} response.Response{data=domain.Order}
// @Failure 422 {object} response.Response
// @Router /admin/pedidos/{id}/estado [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	var req domain.StatusUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), id, req)
	if err != nil {
		return response.FromError(c, err, "No se pudo actualizar el pedido")
	}
	return response.Success(c, "Pedido actualizado", order)
}
