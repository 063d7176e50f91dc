package api

import (
	"context"
	"encoding/json"
	"net/http"

	"tienda-console/internal/core/domain"
)

type addToCart struct {
	ProductoID int64 `json:"productoId"`
	Cantidad   int   `json:"cantidad"`
}

type quantityBody struct {
	Cantidad int `json:"cantidad"`
}

// GetCart returns the cart of the session user
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodGet, path: "/api/carrito", auth: true})
}

// CartCount accepts either a bare number or {"cantidad": n}
func (c *Client) CartCount(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/carrito/cantidad", auth: true}, &raw); err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var wrapped quantityBody
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0, err
	}
	return wrapped.Cantidad, nil
}

func (c *Client) AddToCart(ctx context.Context, productID int64, qty int) (*domain.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodPost, path: "/api/carrito/agregar", body: addToCart{ProductoID: productID, Cantidad: qty}, auth: true})
}

func (c *Client) UpdateCartQuantity(ctx context.Context, productID int64, qty int) (*domain.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodPut, path: idPath("/api/carrito/producto/%d", productID), body: quantityBody{Cantidad: qty}, auth: true})
}

func (c *Client) RemoveFromCart(ctx context.Context, productID int64) (*domain.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodDelete, path: idPath("/api/carrito/producto/%d", productID), auth: true})
}

func (c *Client) ClearCart(ctx context.Context) (*domain.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodDelete, path: "/api/carrito/vaciar", auth: true})
}

func (c *Client) VerifyStock(ctx context.Context) (*domain.StockCheck, error) {
	var out domain.StockCheck
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/carrito/verificar-stock", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout converts the cart into an order and returns its receipt
func (c *Client) Checkout(ctx context.Context, billing domain.BillingData) (*domain.Receipt, error) {
	var out domain.Receipt
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/carrito/checkout", body: billing, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// cartCall decodes a whole-cart answer; an empty body means an empty cart
func (c *Client) cartCall(ctx context.Context, r request) (*domain.Cart, error) {
	out := &domain.Cart{Items: []domain.CartItem{}}
	if err := c.do(ctx, r, out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.CartItem{}
	}
	return out, nil
}
