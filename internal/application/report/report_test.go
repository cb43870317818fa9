package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del libro con respuestas configurables
// ──────────────────────────────────────────────────────────────────────────────

type fakeLedger struct {
	baseline    []repository.BaselineRow
	deltas      []repository.DeltaRow
	stockouts   []repository.StockoutRow
	arrivals    []repository.ArrivalRow
	consumption []repository.ConsumptionRow
	snapshot    []repository.SnapshotRow

	gotItemIDs []int64
}

func (f *fakeLedger) Append(context.Context, *entity.LedgerEntry) error { return nil }
func (f *fakeLedger) Latest(context.Context, int64, int64) (*entity.LedgerEntry, error) {
	return nil, nil
}
func (f *fakeLedger) ExistsForDate(context.Context, int64, int64, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeLedger) BaselineTotals(context.Context, entity.HierarchyCut, time.Time) ([]repository.BaselineRow, error) {
	return f.baseline, nil
}
func (f *fakeLedger) DailyDeltas(context.Context, entity.HierarchyCut, time.Time, time.Time) ([]repository.DeltaRow, error) {
	return f.deltas, nil
}
func (f *fakeLedger) Stockouts(context.Context, time.Time, *int64) ([]repository.StockoutRow, error) {
	return f.stockouts, nil
}
func (f *fakeLedger) ArrivalsForItems(_ context.Context, itemIDs []int64, _ *int64) ([]repository.ArrivalRow, error) {
	f.gotItemIDs = itemIDs
	return f.arrivals, nil
}
func (f *fakeLedger) ConsumptionByFamily(context.Context, time.Time, time.Time, *int64) ([]repository.ConsumptionRow, error) {
	return f.consumption, nil
}
func (f *fakeLedger) LatestSnapshot(context.Context, *int64) ([]repository.SnapshotRow, error) {
	return f.snapshot, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// Evolución: arranque + acumulación de cambios diarios
// ──────────────────────────────────────────────────────────────────────────────

func TestEvolution_ReplayAcumulaDeltas(t *testing.T) {
	from := date(2024, 6, 1)
	to := date(2024, 6, 3)
	ledger := &fakeLedger{
		baseline: []repository.BaselineRow{{Key: "Living", Quantity: 100}},
		deltas: []repository.DeltaRow{
			{Key: "Living", StockDate: date(2024, 6, 1), Delta: -10},
			{Key: "Living", StockDate: date(2024, 6, 3), Delta: 5},
		},
	}
	uc := report.NewEvolutionUseCase(ledger)

	points, err := uc.Evolution(context.Background(), entity.CutEnvironment(nil), from, to)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Día sin asientos conserva el total del día anterior.
	assert.Equal(t, int64(90), points[0].Quantity)
	assert.Equal(t, int64(90), points[1].Quantity)
	assert.Equal(t, int64(95), points[2].Quantity)
	assert.Equal(t, "2024-06-01", points[0].Date)
	assert.Equal(t, "2024-06-02", points[1].Date)
	assert.Equal(t, "2024-06-03", points[2].Date)
}

func TestEvolution_ClaveDebutaElDiaDeSuPrimerCambio(t *testing.T) {
	from := date(2024, 6, 1)
	to := date(2024, 6, 3)
	ledger := &fakeLedger{
		deltas: []repository.DeltaRow{
			{Key: "Dormitorio", StockDate: date(2024, 6, 2), Delta: 7},
		},
	}
	uc := report.NewEvolutionUseCase(ledger)

	points, err := uc.Evolution(context.Background(), entity.CutEnvironment(nil), from, to)
	require.NoError(t, err)

	// Antes de su primer asiento la clave no integra la serie: nada de
	// puntos en cero el día 1.
	require.Len(t, points, 2)
	assert.Equal(t, "2024-06-02", points[0].Date)
	assert.Equal(t, int64(7), points[0].Quantity)
	assert.Equal(t, "2024-06-03", points[1].Date)
	assert.Equal(t, int64(7), points[1].Quantity, "los días siguientes arrastran el total")
}

func TestEvolution_CategoriaAusenteNoAparece(t *testing.T) {
	ledger := &fakeLedger{
		baseline: []repository.BaselineRow{{Key: "Living", Quantity: 10}},
	}
	uc := report.NewEvolutionUseCase(ledger)

	points, err := uc.Evolution(context.Background(), entity.CutEnvironment(nil),
		date(2024, 6, 1), date(2024, 6, 1))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "Living", points[0].Key, "solo las claves observadas integran la serie")
}

func TestEvolution_OrdenEspanolDeClaves(t *testing.T) {
	ledger := &fakeLedger{
		baseline: []repository.BaselineRow{
			{Key: "Ñandubay", Quantity: 1},
			{Key: "Nogal", Quantity: 2},
			{Key: "Álamo", Quantity: 3},
		},
	}
	uc := report.NewEvolutionUseCase(ledger)

	points, err := uc.Evolution(context.Background(), entity.CutFamily(nil, "Living"),
		date(2024, 6, 1), date(2024, 6, 1))
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "Álamo", points[0].Key)
	assert.Equal(t, "Nogal", points[1].Key)
	assert.Equal(t, "Ñandubay", points[2].Key)
}

func TestEvolution_RangoInvertido(t *testing.T) {
	uc := report.NewEvolutionUseCase(&fakeLedger{})
	_, err := uc.Evolution(context.Background(), entity.CutEnvironment(nil),
		date(2024, 6, 2), date(2024, 6, 1))
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Quiebres: vinculación con el último ingreso previo
// ──────────────────────────────────────────────────────────────────────────────

func TestStockouts_VinculaUltimoIngresoPrevio(t *testing.T) {
	prev := int64(12)
	ledger := &fakeLedger{
		stockouts: []repository.StockoutRow{
			{EntryID: 50, ItemID: 1, WarehouseID: 1, SKU: "SKU-1",
				Description: "Sofá 3 cuerpos", Warehouse: "Centro",
				StockDate: date(2024, 6, 7)}, // viernes
		},
		// Ordenados por id descendente, como el repositorio real.
		arrivals: []repository.ArrivalRow{
			{EntryID: 60, ItemID: 1, WarehouseID: 1, StockDate: date(2024, 6, 8), Quantity: 30},
			{EntryID: 40, ItemID: 1, WarehouseID: 1, StockDate: date(2024, 6, 3), Quantity: 20, PreviousQuantity: &prev},
		},
	}
	uc := report.NewStockoutUseCase(ledger)

	days, err := uc.StockoutsByWeekday(context.Background(), date(2024, 6, 1), nil)
	require.NoError(t, err)
	require.Len(t, days, 1)

	day := days[0]
	assert.Equal(t, "Viernes", day.DayName)
	assert.Equal(t, 1, day.Count)
	require.Len(t, day.Products, 1)

	p := day.Products[0]
	require.NotNil(t, p.LastArrivalDate, "debe vincular el ingreso con id menor, no el posterior")
	assert.Equal(t, "2024-06-03", *p.LastArrivalDate)
	assert.Equal(t, int64(20), *p.LastArrivalQuantity)
	assert.Equal(t, int64(8), *p.Added, "agregado = cantidad - cantidad anterior")
	assert.Equal(t, []int64{1}, ledger.gotItemIDs)
}

func TestStockouts_SinIngresoPrevio(t *testing.T) {
	ledger := &fakeLedger{
		stockouts: []repository.StockoutRow{
			{EntryID: 10, ItemID: 2, WarehouseID: 1, SKU: "SKU-2", StockDate: date(2024, 6, 2)}, // domingo
		},
		arrivals: []repository.ArrivalRow{
			{EntryID: 15, ItemID: 2, WarehouseID: 1, StockDate: date(2024, 6, 3), Quantity: 4},
		},
	}
	uc := report.NewStockoutUseCase(ledger)

	days, err := uc.StockoutsByWeekday(context.Background(), date(2024, 6, 1), nil)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Domingo", days[0].DayName)
	p := days[0].Products[0]
	assert.Nil(t, p.LastArrivalDate)
	assert.Nil(t, p.LastArrivalQuantity)
	assert.Nil(t, p.Added)
}

func TestStockouts_ArrivalSinPrevioUsaCantidadCompleta(t *testing.T) {
	ledger := &fakeLedger{
		stockouts: []repository.StockoutRow{
			{EntryID: 50, ItemID: 1, WarehouseID: 1, SKU: "SKU-1", StockDate: date(2024, 6, 7)},
		},
		arrivals: []repository.ArrivalRow{
			{EntryID: 40, ItemID: 1, WarehouseID: 1, StockDate: date(2024, 6, 3), Quantity: 20},
		},
	}
	uc := report.NewStockoutUseCase(ledger)

	days, err := uc.StockoutsByWeekday(context.Background(), date(2024, 6, 1), nil)
	require.NoError(t, err)
	p := days[0].Products[0]
	require.NotNil(t, p.Added)
	assert.Equal(t, int64(20), *p.Added, "ingreso inicial: todo lo observado es agregado")
}

func TestStockouts_SinQuiebres(t *testing.T) {
	uc := report.NewStockoutUseCase(&fakeLedger{})
	days, err := uc.StockoutsByWeekday(context.Background(), date(2024, 6, 1), nil)
	require.NoError(t, err)
	assert.Empty(t, days)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo vs stock
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumption_CruzaConsumoYStock(t *testing.T) {
	from := date(2024, 6, 1)
	to := date(2024, 6, 2)
	ledger := &fakeLedger{
		consumption: []repository.ConsumptionRow{
			{Environment: "Living", Family: "Sofás", StockDate: date(2024, 6, 1), Consumed: 3},
			{Environment: "Living", Family: "Mesas", StockDate: date(2024, 6, 1), Consumed: 2},
		},
		baseline: []repository.BaselineRow{{Key: "Centro", Quantity: 50}},
		deltas: []repository.DeltaRow{
			{Key: "Centro", StockDate: date(2024, 6, 1), Delta: -5},
		},
	}
	uc := report.NewConsumptionUseCase(ledger)

	points, err := uc.ConsumptionVsStock(context.Background(), from, to, nil)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, int64(5), points[0].Consumed, "consumo sumado entre familias")
	assert.Equal(t, int64(45), points[0].Stock)
	assert.Equal(t, int64(0), points[1].Consumed)
	assert.Equal(t, int64(45), points[1].Stock, "el stock persiste en días sin movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Foto vigente
// ──────────────────────────────────────────────────────────────────────────────

func TestSnapshot_AgrupaYEtiquetaVacios(t *testing.T) {
	ledger := &fakeLedger{
		snapshot: []repository.SnapshotRow{
			{Environment: "Living", Family: "Sofás", Level3: "3C", Level4: "Tela", Quantity: 5},
			{Environment: "Living", Family: "Sofás", Level3: "3C", Level4: "Tela", Quantity: 3},
			{Environment: "", Family: "", Level3: "", Level4: "", Quantity: 2},
			{Environment: "Living", Family: "Mesas", Level3: "", Level4: "", Quantity: 0},
		},
	}
	uc := report.NewSnapshotUseCase(ledger)

	nodes, err := uc.CurrentSnapshot(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, nodes, 2, "los nodos sin stock no aparecen")

	assert.Equal(t, int64(8), nodes[0].Quantity, "mismos niveles se agregan")
	assert.Equal(t, "Living", nodes[0].Environment)

	assert.Equal(t, entity.NoEnvironment, nodes[1].Environment)
	assert.Equal(t, entity.NoFamily, nodes[1].Family)
	assert.Equal(t, entity.NoLevel3, nodes[1].Level3)
	assert.Equal(t, entity.NoLevel4, nodes[1].Level4)
}
