package api

import (
	"context"
	"net/http"

	"tienda-console/internal/core/domain"
)

func (c *Client) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/usuarios", query: values(filter), auth: true}, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/usuarios/%d", id), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/usuarios", body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/api/usuarios/%d", id), body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/api/usuarios/%d", id), auth: true}, nil)
}
