package handlers

import (
	"context"
	"time"

	"tienda-console/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything whose reachability the health check reports
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	backend Pinger
	storage Pinger
	cfg     *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend, storage Pinger, cfg *config.Config) *HealthHandler {
	return &HealthHandler{backend: backend, storage: storage, cfg: cfg}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns console status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /status [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🛒 Tienda console is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check backend reachability and storage health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	backendStatus := "healthy"
	if err := h.backend.Ping(ctx); err != nil {
		backendStatus = "unhealthy"
	}

	storageStatus := "healthy"
	if err := h.storage.Ping(ctx); err != nil {
		storageStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "ok"
	if backendStatus != "healthy" || storageStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"console": "healthy",
			"backend": backendStatus,
			"storage": storageStatus,
		},
	})
}
