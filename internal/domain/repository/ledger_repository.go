package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// BaselineRow total de stock por clave de categoría, tomando la última fila de
// cada par (item, sucursal) anterior a la fecha de corte.
type BaselineRow struct {
	Key      string
	Quantity int64
}

// DeltaRow cambio neto diario por clave de categoría:
// SUM(cantidad - COALESCE(cantidad_anterior, 0)) agrupado por fecha.
type DeltaRow struct {
	Key       string
	StockDate time.Time
	Delta     int64
}

// StockoutRow fila de quiebre (cantidad = 0) enriquecida con los datos del
// item y la sucursal que necesita el reporte.
type StockoutRow struct {
	EntryID     int64
	ItemID      int64
	WarehouseID int64
	SKU         string
	Description string
	Environment string
	Family      string
	Warehouse   string
	StockDate   time.Time
}

// ArrivalRow fila de ingreso (is_new_arrival = true) para vincular quiebres
// con su último ingreso previo. El repositorio las devuelve ordenadas por
// EntryID descendente.
type ArrivalRow struct {
	EntryID          int64
	ItemID           int64
	WarehouseID      int64
	StockDate        time.Time
	Quantity         int64
	PreviousQuantity *int64
}

// ConsumptionRow consumo neto (cantidad_anterior - cantidad, solo positivo)
// agrupado por (ambiente, familia, fecha).
type ConsumptionRow struct {
	Environment string
	Family      string
	StockDate   time.Time
	Consumed    int64
}

// SnapshotRow última observación por par, con su jerarquía, para el treemap.
type SnapshotRow struct {
	Environment string
	Family      string
	Level3      string
	Level4      string
	Quantity    int64
}

// LedgerRepository define el puerto del libro mayor de stock. Append es la
// única escritura: ninguna implementación emite UPDATE ni DELETE sobre el
// libro.
type LedgerRepository interface {
	// Append inserta la fila y completa entry.ID con el id asignado
	// (monótonamente creciente por orden de inserción).
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// Latest devuelve la fila más reciente del par (item, sucursal) ordenando
	// por (stock_date DESC, id DESC), o nil si el par nunca fue observado.
	Latest(ctx context.Context, itemID, warehouseID int64) (*entity.LedgerEntry, error)

	// ExistsForDate guarda de duplicados: true si el par ya tiene una fila en
	// esa fecha de negocio.
	ExistsForDate(ctx context.Context, itemID, warehouseID int64, stockDate time.Time) (bool, error)

	// BaselineTotals estado "al día anterior" de la ventana: total por clave
	// del corte, usando la última fila de cada par estrictamente anterior a
	// before.
	BaselineTotals(ctx context.Context, cut entity.HierarchyCut, before time.Time) ([]BaselineRow, error)

	// DailyDeltas cambios netos diarios por clave del corte en [from, to].
	DailyDeltas(ctx context.Context, cut entity.HierarchyCut, from, to time.Time) ([]DeltaRow, error)

	// Stockouts filas con cantidad 0 desde since, opcionalmente filtradas por
	// sucursal, ordenadas por fecha descendente.
	Stockouts(ctx context.Context, since time.Time, warehouseID *int64) ([]StockoutRow, error)

	// ArrivalsForItems ingresos de los items dados, ordenados por id
	// descendente, para la vinculación quiebre → último ingreso.
	ArrivalsForItems(ctx context.Context, itemIDs []int64, warehouseID *int64) ([]ArrivalRow, error)

	// ConsumptionByFamily consumo neto por (ambiente, familia, fecha) en el
	// rango, excluyendo ingresos.
	ConsumptionByFamily(ctx context.Context, from, to time.Time, warehouseID *int64) ([]ConsumptionRow, error)

	// LatestSnapshot última observación de cada par con su jerarquía.
	LatestSnapshot(ctx context.Context, warehouseID *int64) ([]SnapshotRow, error)
}
