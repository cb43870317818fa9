package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP). El SKU es
// la clave estable: la identidad nunca se re-deriva de descripción o color.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
}
