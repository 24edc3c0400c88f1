package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Nombre a mostrar, total de ventas completadas, ventas pendientes,
// @Description  unidades en stock, total de clientes y los 5 clientes más recientes.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
