package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// SnapshotUseCase arma la foto vigente del stock agrupada por jerarquía
// completa, tal como la consume el treemap.
type SnapshotUseCase struct {
	ledgerRepo repository.LedgerRepository
}

func NewSnapshotUseCase(ledgerRepo repository.LedgerRepository) *SnapshotUseCase {
	return &SnapshotUseCase{ledgerRepo: ledgerRepo}
}

// CurrentSnapshot devuelve un nodo por (ambiente, familia, nivel3, nivel4)
// con el total vigente, normalizando niveles vacíos a su etiqueta de relleno
// y omitiendo nodos sin stock.
func (uc *SnapshotUseCase) CurrentSnapshot(ctx context.Context, warehouseID *int64) ([]dto.SnapshotNodeDTO, error) {
	rows, err := uc.ledgerRepo.LatestSnapshot(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("obtener foto vigente: %w", err)
	}

	type nodeKey struct {
		environment, family, level3, level4 string
	}
	totals := make(map[nodeKey]int64, len(rows))
	for _, r := range rows {
		k := nodeKey{
			environment: orLabel(r.Environment, entity.NoEnvironment),
			family:      orLabel(r.Family, entity.NoFamily),
			level3:      orLabel(r.Level3, entity.NoLevel3),
			level4:      orLabel(r.Level4, entity.NoLevel4),
		}
		totals[k] += r.Quantity
	}

	nodes := make([]dto.SnapshotNodeDTO, 0, len(totals))
	for k, total := range totals {
		if total <= 0 {
			continue
		}
		nodes = append(nodes, dto.SnapshotNodeDTO{
			Environment: k.environment,
			Family:      k.family,
			Level3:      k.level3,
			Level4:      k.level4,
			Quantity:    total,
		})
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Quantity != nodes[j].Quantity {
			return nodes[i].Quantity > nodes[j].Quantity
		}
		if nodes[i].Environment != nodes[j].Environment {
			return nodes[i].Environment < nodes[j].Environment
		}
		if nodes[i].Family != nodes[j].Family {
			return nodes[i].Family < nodes[j].Family
		}
		if nodes[i].Level3 != nodes[j].Level3 {
			return nodes[i].Level3 < nodes[j].Level3
		}
		return nodes[i].Level4 < nodes[j].Level4
	})

	return nodes, nil
}

func orLabel(value, label string) string {
	if value == "" {
		return label
	}
	return value
}
