package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/audit"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// AuditHandler maneja el tablero de auditoría de cargas (protegido).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Compliance godoc
// @Summary      Grilla de cumplimiento de cargas
// @Description  Un veredicto por (fecha, sucursal activa) del rango, incluyendo días sin cargas.
// @Tags         auditoria
// @Security     Bearer
// @Produce      json
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        hasta        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Success      200  {array}   dto.ComplianceDayDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/auditoria/cumplimiento [get]
func (h *AuditHandler) Compliance(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.ComplianceGrid(c.UserContext(), from, to, parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// KPIs godoc
// @Summary      KPIs de cargas
// @Tags         auditoria
// @Security     Bearer
// @Produce      json
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        hasta        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Success      200  {object}  dto.LoadKPIsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/auditoria/kpis [get]
func (h *AuditHandler) KPIs(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.KPIs(c.UserContext(), from, to, parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecentEvents godoc
// @Summary      Cargas recientes
// @Tags         auditoria
// @Security     Bearer
// @Produce      json
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        hasta        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Success      200  {array}   dto.LoadEventDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/auditoria/cargas [get]
func (h *AuditHandler) RecentEvents(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.RecentEvents(c.UserContext(), from, to, parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
