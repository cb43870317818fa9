package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/excel"
)

// ReportHandler maneja los reportes sobre el libro de stock (protegido).
type ReportHandler struct {
	evolutionUC   *report.EvolutionUseCase
	snapshotUC    *report.SnapshotUseCase
	stockoutUC    *report.StockoutUseCase
	consumptionUC *report.ConsumptionUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(
	evolutionUC *report.EvolutionUseCase,
	snapshotUC *report.SnapshotUseCase,
	stockoutUC *report.StockoutUseCase,
	consumptionUC *report.ConsumptionUseCase,
) *ReportHandler {
	return &ReportHandler{
		evolutionUC:   evolutionUC,
		snapshotUC:    snapshotUC,
		stockoutUC:    stockoutUC,
		consumptionUC: consumptionUC,
	}
}

// Evolution godoc
// @Summary      Evolución histórica de stock
// @Description  Serie reconstruida por categoría en el nivel pedido; los niveles profundos exigen los filtros de sus niveles superiores.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        nivel        query  string  true   "sucursal | ambiente | familia | nivel3 | nivel4 | sku"
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        hasta        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Param        ambiente     query  string  false  "Requerido desde nivel familia"
// @Param        familia      query  string  false  "Requerido desde nivel nivel3"
// @Param        nivel3       query  string  false  "Requerido en nivel nivel4"
// @Param        sku          query  string  false  "Requerido en nivel sku"
// @Success      200  {array}   dto.EvolutionPointDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/evolucion [get]
func (h *ReportHandler) Evolution(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	cut, err := parseCut(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.evolutionUC.Evolution(c.UserContext(), cut, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Snapshot godoc
// @Summary      Foto vigente por jerarquía (treemap)
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        sucursal_id  query  int  false  "Filtro de sucursal"
// @Success      200  {array}  dto.SnapshotNodeDTO
// @Router       /api/reportes/foto [get]
func (h *ReportHandler) Snapshot(c *fiber.Ctx) error {
	out, err := h.snapshotUC.CurrentSnapshot(c.UserContext(), parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stockouts godoc
// @Summary      Quiebres de stock por día de la semana
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Success      200  {array}   dto.StockoutDayDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/quiebres [get]
func (h *ReportHandler) Stockouts(c *fiber.Ctx) error {
	since, err := dto.ParseDate(c.Query("desde"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde inválido (YYYY-MM-DD)"})
	}
	out, err := h.stockoutUC.StockoutsByWeekday(c.UserContext(), since, parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportStockouts godoc
// @Summary      Exportar quiebres a xlsx
// @Tags         reportes
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/quiebres/export [get]
func (h *ReportHandler) ExportStockouts(c *fiber.Ctx) error {
	since, err := dto.ParseDate(c.Query("desde"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde inválido (YYYY-MM-DD)"})
	}
	days, err := h.stockoutUC.StockoutsByWeekday(c.UserContext(), since, parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	data, err := excel.ExportStockouts(days)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="quiebres.xlsx"`)
	return c.Send(data)
}

// Consumption godoc
// @Summary      Consumo diario contra stock vigente
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        desde        query  string  true   "YYYY-MM-DD"
// @Param        hasta        query  string  true   "YYYY-MM-DD"
// @Param        sucursal_id  query  int     false  "Filtro de sucursal"
// @Success      200  {array}   dto.ConsumptionPointDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/consumo [get]
func (h *ReportHandler) Consumption(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.consumptionUC.ConsumptionVsStock(c.UserContext(), from, to, parseWarehouseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseDateRange lee desde/hasta (YYYY-MM-DD) y valida el orden.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := dto.ParseDate(c.Query("desde"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("desde inválido (YYYY-MM-DD)")
	}
	to, err := dto.ParseDate(c.Query("hasta"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("hasta inválido (YYYY-MM-DD)")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("hasta debe ser posterior o igual a desde")
	}
	return from, to, nil
}

// parseWarehouseID lee sucursal_id; nil cuando no viene (todas las sucursales).
func parseWarehouseID(c *fiber.Ctx) *int64 {
	id := c.QueryInt("sucursal_id", 0)
	if id <= 0 {
		return nil
	}
	v := int64(id)
	return &v
}

// parseCut arma el corte de jerarquía desde los query params, validando que
// cada nivel traiga los filtros de sus niveles superiores.
func parseCut(c *fiber.Ctx) (entity.HierarchyCut, error) {
	whID := parseWarehouseID(c)
	environment := c.Query("ambiente")
	family := c.Query("familia")
	level3 := c.Query("nivel3")
	sku := c.Query("sku")

	switch entity.HierarchyLevel(c.Query("nivel")) {
	case entity.LevelWarehouse:
		return entity.CutWarehouse(whID), nil
	case entity.LevelEnvironment:
		return entity.CutEnvironment(whID), nil
	case entity.LevelFamily:
		if environment == "" {
			return entity.HierarchyCut{}, fmt.Errorf("nivel familia requiere ambiente")
		}
		return entity.CutFamily(whID, environment), nil
	case entity.LevelLevel3:
		if environment == "" || family == "" {
			return entity.HierarchyCut{}, fmt.Errorf("nivel nivel3 requiere ambiente y familia")
		}
		return entity.CutLevel3(whID, environment, family), nil
	case entity.LevelLevel4:
		if environment == "" || family == "" || level3 == "" {
			return entity.HierarchyCut{}, fmt.Errorf("nivel nivel4 requiere ambiente, familia y nivel3")
		}
		return entity.CutLevel4(whID, environment, family, level3), nil
	case entity.LevelSKU:
		if sku == "" {
			return entity.HierarchyCut{}, fmt.Errorf("nivel sku requiere sku")
		}
		return entity.CutSKU(whID, sku), nil
	default:
		return entity.HierarchyCut{}, fmt.Errorf("nivel inválido")
	}
}
