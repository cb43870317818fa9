package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/warehouse"
)

// WarehouseHandler maneja las peticiones HTTP para sucursales (protegido;
// las mutaciones requieren rol admin).
type WarehouseHandler struct {
	uc *warehouse.UseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *warehouse.UseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// List godoc
// @Summary      Listar sucursales
// @Tags         sucursales
// @Security     Bearer
// @Produce      json
// @Param        habilitadas  query  bool  false  "Solo sucursales habilitadas"
// @Success      200  {array}  dto.WarehouseResponse
// @Router       /api/sucursales [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryBool("habilitadas", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetUploadDay godoc
// @Summary      Configurar día esperado de carga
// @Tags         sucursales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID de la sucursal"
// @Param        body  body  dto.UpdateUploadDayRequest  true  "Día de la semana en español; vacío lo borra"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sucursales/{id}/upd-stock [put]
func (h *WarehouseHandler) SetUploadDay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateUploadDayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetExpectedUploadDay(c.UserContext(), int64(id), in.Day); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetDisabled godoc
// @Summary      Habilitar o deshabilitar sucursal
// @Tags         sucursales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int   true  "ID de la sucursal"
// @Param        body  body  object{inhabilitado=bool}  true  "Estado deseado"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sucursales/{id}/inhabilitar [put]
func (h *WarehouseHandler) SetDisabled(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in struct {
		Disabled bool `json:"inhabilitado"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetDisabled(c.UserContext(), int64(id), in.Disabled); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
