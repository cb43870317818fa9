package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/ingest"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/excel"
)

// StockHandler maneja la subida de snapshots de stock y el estado de las
// cargas (protegido).
type StockHandler struct {
	uc *ingest.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ingest.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir snapshot de stock
// @Description  Acepta un .xlsx con la foto completa de una sucursal y lo procesa en segundo plano.
// @Tags         stock
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true  "Archivo .xlsx"
// @Param        fecha_stock  formData  string  true  "Fecha de negocio YYYY-MM-DD"
// @Success      202  {object}  dto.UploadAcceptedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/upload [post]
func (h *StockHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo requerido"})
	}

	stockDate, err := dto.ParseDate(c.FormValue("fecha_stock"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha_stock inválida (YYYY-MM-DD)"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	rows, err := excel.ReadSnapshot(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "el archivo no es un xlsx válido"})
	}

	event, err := h.uc.StartLoad(c.UserContext(), fileHeader.Filename, stockDate, GetUserID(c), rows)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.UploadAcceptedResponse{
		EventID: event.ID,
		Message: "carga aceptada; procesando en segundo plano",
	})
}

// Status godoc
// @Summary      Estado de una carga
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del evento de carga"
// @Success      200  {object}  dto.LoadStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/cargas/{id} [get]
func (h *StockHandler) Status(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	out, err := h.uc.Status(c.UserContext(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
