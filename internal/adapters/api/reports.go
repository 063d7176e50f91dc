package api

import (
	"context"
	"net/http"

	"tienda-console/internal/core/domain"
)

// Statistics is ADMIN only; a 403 matches domain.ErrForbidden
func (c *Client) Statistics(ctx context.Context) (*domain.Report, error) {
	var out domain.Report
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/admin/estadisticas", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
