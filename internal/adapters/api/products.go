package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tienda-console/internal/core/domain"
)

// ListProducts filters on the server: the search endpoint when a term is set
func (c *Client) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	path := "/api/productos"
	if filter.Search != "" {
		path = "/api/productos/buscar"
	}
	var out []domain.Product
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: values(filter)}, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/productos/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/productos", body: p, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/api/productos/%d", id), body: p, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/api/productos/%d", id), auth: true}, nil)
}

// FeaturedProducts lists every product flagged as featured
func (c *Client) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/productos/destacados"}, &out)
	return out, err
}

// FeaturedTop3 is the home page selection
func (c *Client) FeaturedTop3(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/productos/destacados/top3"}, &out)
	return out, err
}

func (c *Client) SetFeatured(ctx context.Context, id int64, featured bool) (*domain.Product, error) {
	var out domain.Product
	q := url.Values{"destacado": {strconv.FormatBool(featured)}}
	if err := c.do(ctx, request{method: http.MethodPatch, path: idPath("/api/productos/%d/destacado", id), query: q, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks that the backend answers a public read
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/api/productos/destacados/top3", timeout: 5 * time.Second}, nil)
}
