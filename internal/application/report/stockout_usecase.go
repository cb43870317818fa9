package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/audit"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// weekdayOrder orden de presentación del reporte, empezando en domingo.
var weekdayOrder = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// StockoutUseCase agrupa los quiebres de stock por día de la semana y los
// vincula con el último ingreso previo de cada par (artículo, sucursal).
type StockoutUseCase struct {
	ledgerRepo repository.LedgerRepository
}

func NewStockoutUseCase(ledgerRepo repository.LedgerRepository) *StockoutUseCase {
	return &StockoutUseCase{ledgerRepo: ledgerRepo}
}

// StockoutsByWeekday devuelve los quiebres desde since agrupados por día de
// la semana. El último ingreso previo de cada quiebre se resuelve en memoria:
// el ingreso con mayor id entre los anteriores al asiento del quiebre.
func (uc *StockoutUseCase) StockoutsByWeekday(ctx context.Context, since time.Time, warehouseID *int64) ([]dto.StockoutDayDTO, error) {
	stockouts, err := uc.ledgerRepo.Stockouts(ctx, since, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("obtener quiebres: %w", err)
	}
	if len(stockouts) == 0 {
		return []dto.StockoutDayDTO{}, nil
	}

	itemIDs := make([]int64, 0, len(stockouts))
	seen := make(map[int64]struct{}, len(stockouts))
	for _, s := range stockouts {
		if _, ok := seen[s.ItemID]; !ok {
			seen[s.ItemID] = struct{}{}
			itemIDs = append(itemIDs, s.ItemID)
		}
	}

	arrivals, err := uc.ledgerRepo.ArrivalsForItems(ctx, itemIDs, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("obtener ingresos: %w", err)
	}

	byDay := make(map[time.Weekday][]dto.StockoutProductDTO)
	for _, s := range stockouts {
		product := dto.StockoutProductDTO{
			SKU:         s.SKU,
			Description: s.Description,
			Environment: s.Environment,
			Family:      s.Family,
			Warehouse:   s.Warehouse,
			StockDate:   dto.FormatDate(s.StockDate),
		}
		if arrival := lastArrivalBefore(arrivals, s); arrival != nil {
			date := dto.FormatDate(arrival.StockDate)
			qty := arrival.Quantity
			added := arrival.Quantity
			if arrival.PreviousQuantity != nil {
				added -= *arrival.PreviousQuantity
			}
			product.LastArrivalDate = &date
			product.LastArrivalQuantity = &qty
			product.Added = &added
		}
		day := s.StockDate.Weekday()
		byDay[day] = append(byDay[day], product)
	}

	var days []dto.StockoutDayDTO
	for _, wd := range weekdayOrder {
		products := byDay[wd]
		if len(products) == 0 {
			continue
		}
		days = append(days, dto.StockoutDayDTO{
			DayName:  audit.DayName(wd),
			Count:    len(products),
			Products: products,
		})
	}

	return days, nil
}

// lastArrivalBefore aprovecha que arrivals viene ordenado por id descendente:
// el primer ingreso del mismo par con id menor al del quiebre es el buscado.
func lastArrivalBefore(arrivals []repository.ArrivalRow, s repository.StockoutRow) *repository.ArrivalRow {
	for i := range arrivals {
		a := &arrivals[i]
		if a.ItemID == s.ItemID && a.WarehouseID == s.WarehouseID && a.EntryID < s.EntryID {
			return a
		}
	}
	return nil
}
