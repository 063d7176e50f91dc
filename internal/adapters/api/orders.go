package api

import (
	"context"
	"net/http"

	"tienda-console/internal/core/domain"
)

func (c *Client) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/pedidos/admin/lista", query: values(filter), auth: true}, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/pedidos/admin/%d", id), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/api/pedidos/admin/%d/estado", id), body: upd, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	var out domain.OrderStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/pedidos/admin/stats", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
