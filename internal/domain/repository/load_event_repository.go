package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// UploadCountRow cantidad de cargas de stock observadas para una sucursal en
// una fecha de negocio. Solo incluye pares con al menos una carga; la grilla
// completa (incluyendo ceros) la arma el use case de auditoría.
type UploadCountRow struct {
	StockDate   time.Time
	WarehouseID int64
	Uploads     int
}

// LoadKPIs indicadores agregados de cargas para el tablero de auditoría.
type LoadKPIs struct {
	Total          int64
	Succeeded      int64
	AveragePercent decimal.Decimal
}

// LoadEventView fila para la tabla de auditoría de cargas recientes.
type LoadEventView struct {
	CreatedAt time.Time
	Warehouse string
	User      string
	FileName  string
	Processed int
	TotalRows int
	Percent   int
	State     string
}

// LoadEventRepository define el puerto de persistencia para LoadEvent.
// Los eventos nunca se borran; solo la ingesta los muta.
type LoadEventRepository interface {
	Create(ctx context.Context, event *entity.LoadEvent) error
	GetByID(ctx context.Context, id int64) (*entity.LoadEvent, error)

	// UpdateProgress persiste los contadores de avance; debe ser durable antes
	// de procesar el siguiente bloque para que los pollers vean progreso vivo.
	UpdateProgress(ctx context.Context, id int64, processed, percent int) error

	// MarkCompleted / MarkFailed finalizan el evento exactamente una vez.
	MarkCompleted(ctx context.Context, id int64, firstLedgerID, lastLedgerID *int64) error
	MarkFailed(ctx context.Context, id int64, observations string, firstLedgerID, lastLedgerID *int64) error

	ExistsByFileName(ctx context.Context, fileName string) (bool, error)
	ExistsInProgress(ctx context.Context) (bool, error)

	// UploadCounts cargas de stock por (fecha de negocio, sucursal) en el rango.
	UploadCounts(ctx context.Context, from, to time.Time, warehouseID *int64) ([]UploadCountRow, error)

	// KPIs totales, exitosas y porcentaje promedio de completitud en el rango.
	KPIs(ctx context.Context, from, to time.Time, warehouseID *int64) (LoadKPIs, error)

	// Recent últimos eventos de stock del rango para la tabla de auditoría
	// (máximo limit filas, más recientes primero).
	Recent(ctx context.Context, from, to time.Time, warehouseID *int64, limit int) ([]LoadEventView, error)
}
