package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
// No hay Delete: las sucursales solo se habilitan/deshabilitan.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	GetByDepositID(ctx context.Context, depositID int64) (*entity.Warehouse, error)
	List(ctx context.Context, onlyEnabled bool) ([]*entity.Warehouse, error)
	SetExpectedUploadDay(ctx context.Context, id int64, day *string) error
	SetDisabled(ctx context.Context, id int64, disabled bool) error
}
