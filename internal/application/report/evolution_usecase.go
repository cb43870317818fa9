package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// EvolutionUseCase reconstruye series históricas de stock por categoría a
// partir del libro diferencial: arranque con el estado previo a la ventana y
// acumulación de los cambios netos diarios.
type EvolutionUseCase struct {
	ledgerRepo repository.LedgerRepository
	collator   *collate.Collator
}

func NewEvolutionUseCase(ledgerRepo repository.LedgerRepository) *EvolutionUseCase {
	return &EvolutionUseCase{
		ledgerRepo: ledgerRepo,
		collator:   collate.New(language.Spanish, collate.IgnoreCase),
	}
}

// Evolution devuelve un punto por (clave, día) dentro de [from, to]. Una
// clave integra la serie recién desde el día de su primera observación: las
// que arrancan con estado previo aparecen desde from; las que debutan con un
// cambio dentro de la ventana aparecen desde ese día. Antes de eso la clave
// está ausente, no en cero.
func (uc *EvolutionUseCase) Evolution(ctx context.Context, cut entity.HierarchyCut, from, to time.Time) ([]dto.EvolutionPointDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	baseline, err := uc.ledgerRepo.BaselineTotals(ctx, cut, from)
	if err != nil {
		return nil, fmt.Errorf("calcular estado inicial: %w", err)
	}
	deltas, err := uc.ledgerRepo.DailyDeltas(ctx, cut, from, to)
	if err != nil {
		return nil, fmt.Errorf("calcular cambios diarios: %w", err)
	}

	// Total vigente por clave al día anterior a la ventana. Estas claves se
	// emiten desde el primer día.
	running := make(map[string]int64, len(baseline))
	firstSeen := make(map[string]string, len(baseline))
	fromDate := dto.FormatDate(from)
	for _, b := range baseline {
		running[b.Key] = b.Quantity
		firstSeen[b.Key] = fromDate
	}

	// Cambio neto por (clave, día). Las claves sin estado previo debutan el
	// día de su primer cambio.
	deltaByKeyDate := make(map[string]map[string]int64)
	for _, d := range deltas {
		date := dto.FormatDate(d.StockDate)
		if deltaByKeyDate[d.Key] == nil {
			deltaByKeyDate[d.Key] = make(map[string]int64)
		}
		deltaByKeyDate[d.Key][date] += d.Delta
		if seen, ok := firstSeen[d.Key]; !ok || date < seen {
			firstSeen[d.Key] = date
		}
	}

	keys := make([]string, 0, len(firstSeen))
	for key := range firstSeen {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return uc.collator.CompareString(keys[i], keys[j]) < 0
	})

	var points []dto.EvolutionPointDTO
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := dto.FormatDate(day)
		for _, key := range keys {
			if date < firstSeen[key] {
				continue
			}
			if perDay, ok := deltaByKeyDate[key]; ok {
				running[key] += perDay[date]
			}
			points = append(points, dto.EvolutionPointDTO{
				Key:      key,
				Date:     date,
				Quantity: running[key],
			})
		}
	}

	return points, nil
}
