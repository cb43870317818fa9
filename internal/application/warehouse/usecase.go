package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/application/audit"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// UseCase administración de sucursales: listado, día esperado de carga y
// habilitación.
type UseCase struct {
	warehouseRepo repository.WarehouseRepository
}

func NewUseCase(warehouseRepo repository.WarehouseRepository) *UseCase {
	return &UseCase{warehouseRepo: warehouseRepo}
}

// List devuelve las sucursales; con onlyEnabled se omiten las deshabilitadas.
func (uc *UseCase) List(ctx context.Context, onlyEnabled bool) ([]dto.WarehouseResponse, error) {
	warehouses, err := uc.warehouseRepo.List(ctx, onlyEnabled)
	if err != nil {
		return nil, fmt.Errorf("listar sucursales: %w", err)
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, toResponse(w))
	}
	return out, nil
}

// SetExpectedUploadDay fija el día de la semana en que la sucursal debería
// subir stock. Acepta nombres de día en castellano, sin distinguir mayúsculas;
// vacío limpia la configuración.
func (uc *UseCase) SetExpectedUploadDay(ctx context.Context, id int64, day string) error {
	day = strings.TrimSpace(day)
	var value *string
	if day != "" {
		normalized, ok := audit.NormalizeDayName(day)
		if !ok {
			return domain.ErrInvalidInput
		}
		value = &normalized
	}

	existing, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("buscar sucursal: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := uc.warehouseRepo.SetExpectedUploadDay(ctx, id, value); err != nil {
		return fmt.Errorf("actualizar día de carga: %w", err)
	}
	return nil
}

// SetDisabled habilita o deshabilita una sucursal. Las deshabilitadas salen
// de la grilla de cumplimiento pero conservan su historial.
func (uc *UseCase) SetDisabled(ctx context.Context, id int64, disabled bool) error {
	existing, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("buscar sucursal: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := uc.warehouseRepo.SetDisabled(ctx, id, disabled); err != nil {
		return fmt.Errorf("actualizar habilitación: %w", err)
	}
	return nil
}

func toResponse(w *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:                w.ID,
		DepositID:         w.DepositID,
		DepositCode:       w.DepositCode,
		Name:              w.Name,
		ExpectedUploadDay: w.ExpectedUploadDay,
		Disabled:          w.Disabled,
	}
}
