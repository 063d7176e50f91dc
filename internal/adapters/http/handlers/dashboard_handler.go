package handlers

import (
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Order stats, report, product counts and featured list (Admin only)
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=services.AdminDashboardData}
// @Failure 302 {string} string "redirect to /login or /"
// @Router /admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el panel")
	}

	return response.Success(c, "", data)
}

// GetReports returns the statistics report
// @Summary Reports
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response{data=domain.Report}
// @Router /admin/reportes [get]
func (h *DashboardHandler) GetReports(c *fiber.Ctx) error {
	report, err := h.dashboardService.Report(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudieron cargar los reportes")
	}

	return response.Success(c, "", report)
}
