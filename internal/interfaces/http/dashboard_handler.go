package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/voiceinvoice-api/internal/application/analytics"
)

// DashboardHandler maneja las peticiones del dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats resumen de facturación para el dashboard.
// GET /api/dashboard/stats
//
// Siempre responde 200: ante cualquier fallo interno el caso de uso degrada a
// ceros en lugar de propagar el error.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetStats(c.Context()))
}
