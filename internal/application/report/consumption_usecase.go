package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ConsumptionUseCase cruza el consumo diario (bajas netas que no son
// ingresos) contra el stock total vigente de cada día.
type ConsumptionUseCase struct {
	ledgerRepo repository.LedgerRepository
}

func NewConsumptionUseCase(ledgerRepo repository.LedgerRepository) *ConsumptionUseCase {
	return &ConsumptionUseCase{ledgerRepo: ledgerRepo}
}

// ConsumptionVsStock devuelve un punto por día de [from, to] con el consumo
// del día y el stock total al cierre de ese día.
func (uc *ConsumptionUseCase) ConsumptionVsStock(ctx context.Context, from, to time.Time, warehouseID *int64) ([]dto.ConsumptionPointDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	consumption, err := uc.ledgerRepo.ConsumptionByFamily(ctx, from, to, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("obtener consumo: %w", err)
	}
	consumedByDate := make(map[string]int64, len(consumption))
	for _, c := range consumption {
		consumedByDate[dto.FormatDate(c.StockDate)] += c.Consumed
	}

	cut := entity.CutWarehouse(warehouseID)
	baseline, err := uc.ledgerRepo.BaselineTotals(ctx, cut, from)
	if err != nil {
		return nil, fmt.Errorf("calcular estado inicial: %w", err)
	}
	deltas, err := uc.ledgerRepo.DailyDeltas(ctx, cut, from, to)
	if err != nil {
		return nil, fmt.Errorf("calcular cambios diarios: %w", err)
	}

	var stock int64
	for _, b := range baseline {
		stock += b.Quantity
	}
	deltaByDate := make(map[string]int64, len(deltas))
	for _, d := range deltas {
		deltaByDate[dto.FormatDate(d.StockDate)] += d.Delta
	}

	var points []dto.ConsumptionPointDTO
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := dto.FormatDate(day)
		stock += deltaByDate[date]
		points = append(points, dto.ConsumptionPointDTO{
			Date:     date,
			Consumed: consumedByDate[date],
			Stock:    stock,
		})
	}

	return points, nil
}
