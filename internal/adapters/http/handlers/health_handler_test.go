package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"tienda-console/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func TestHealthCheck(t *testing.T) {
	down := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name     string
		backend  pingFunc
		storage  pingFunc
		status   int
		expected map[string]string
	}{
		{"all healthy", healthy, healthy, fiber.StatusOK, map[string]string{"backend": "healthy", "storage": "healthy"}},
		{"backend down", down, healthy, fiber.StatusServiceUnavailable, map[string]string{"backend": "unhealthy", "storage": "healthy"}},
		{"storage down", healthy, down, fiber.StatusServiceUnavailable, map[string]string{"backend": "healthy", "storage": "unhealthy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.backend, tt.storage, &config.Config{AppMode: "dev"})
			app := fiber.New()
			app.Get("/health", h.HealthCheck)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			for k, v := range tt.expected {
				assert.Equal(t, v, body.Checks[k], k)
			}
		})
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/p/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(id)
	})

	for path, status := range map[string]int{"/p/12": 200, "/p/0": 400, "/p/-3": 400, "/p/abc": 400} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
