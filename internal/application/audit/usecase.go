package audit

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// recentLimit tope de filas para la tabla de cargas recientes.
const recentLimit = 100

// UseCase arma el tablero de auditoría de cargas: grilla de cumplimiento,
// KPIs y eventos recientes. Lee solo metadatos de cargas, nunca el libro.
type UseCase struct {
	loadRepo      repository.LoadEventRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso de auditoría.
func NewUseCase(loadRepo repository.LoadEventRepository, warehouseRepo repository.WarehouseRepository) *UseCase {
	return &UseCase{loadRepo: loadRepo, warehouseRepo: warehouseRepo}
}

// ComplianceGrid evalúa la regla de cumplimiento sobre el producto completo
// fechas × sucursales activas del rango; los días sin ninguna carga aparecen
// con Uploads = 0. Si warehouseID no es nil la grilla se limita a esa
// sucursal. El resultado va de la fecha más reciente a la más antigua.
func (uc *UseCase) ComplianceGrid(ctx context.Context, from, to time.Time, warehouseID *int64) ([]dto.ComplianceDayDTO, error) {
	warehouses, err := uc.warehouseRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if warehouseID != nil {
		filtered := warehouses[:0]
		for _, w := range warehouses {
			if w.ID == *warehouseID {
				filtered = append(filtered, w)
			}
		}
		warehouses = filtered
	}

	counts, err := uc.loadRepo.UploadCounts(ctx, from, to, warehouseID)
	if err != nil {
		return nil, err
	}
	type dayKey struct {
		date        string
		warehouseID int64
	}
	byDay := make(map[dayKey]int, len(counts))
	for _, c := range counts {
		byDay[dayKey{c.StockDate.Format(dto.DateLayout), c.WarehouseID}] = c.Uploads
	}

	var grid []dto.ComplianceDayDTO
	for date := to; !date.Before(from); date = date.AddDate(0, 0, -1) {
		for _, w := range warehouses {
			uploads := byDay[dayKey{date.Format(dto.DateLayout), w.ID}]
			grid = append(grid, dto.ComplianceDayDTO{
				Date:        dto.FormatDate(date),
				WarehouseID: w.ID,
				Warehouse:   w.Name,
				ActualDay:   DayName(date.Weekday()),
				ExpectedDay: w.ExpectedUploadDay,
				Uploads:     uploads,
				HighVolume:  uploads > 2,
				Compliant:   Evaluate(date, w.ExpectedUploadDay, uploads),
			})
		}
	}
	return grid, nil
}

// KPIs indicadores agregados de cargas del rango.
func (uc *UseCase) KPIs(ctx context.Context, from, to time.Time, warehouseID *int64) (*dto.LoadKPIsDTO, error) {
	kpis, err := uc.loadRepo.KPIs(ctx, from, to, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.LoadKPIsDTO{
		Total:          kpis.Total,
		Succeeded:      kpis.Succeeded,
		Failed:         kpis.Total - kpis.Succeeded,
		AveragePercent: kpis.AveragePercent,
	}, nil
}

// RecentEvents últimos eventos de carga del rango para la tabla de auditoría.
func (uc *UseCase) RecentEvents(ctx context.Context, from, to time.Time, warehouseID *int64) ([]dto.LoadEventDTO, error) {
	rows, err := uc.loadRepo.Recent(ctx, from, to, warehouseID, recentLimit)
	if err != nil {
		return nil, err
	}
	events := make([]dto.LoadEventDTO, 0, len(rows))
	for _, r := range rows {
		events = append(events, dto.LoadEventDTO{
			Date:      r.CreatedAt.Format(time.RFC3339),
			Warehouse: r.Warehouse,
			User:      r.User,
			FileName:  r.FileName,
			Processed: r.Processed,
			TotalRows: r.TotalRows,
			Percent:   r.Percent,
			State:     r.State,
		})
	}
	return events, nil
}
