package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/clock"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
	"github.com/jhoicas/stock-ledger-api/pkg/metrics"
)

// admissionGate serializa las cargas dentro del proceso: a lo sumo una
// ingesta EN_PROCESO a la vez. Se adquiere antes de crear el evento y se
// libera al llegar a un estado terminal.
type admissionGate struct {
	mu   sync.Mutex
	busy bool
}

func (g *admissionGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

func (g *admissionGate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// UseCase orquesta la ingesta de fotos completas de stock y su conversión
// en asientos diferenciales del historial.
type UseCase struct {
	tx            TxRunner
	warehouseRepo repository.WarehouseRepository
	loadRepo      repository.LoadEventRepository
	clk           clock.Clock
	log           *logger.Logger
	chunkSize     int
	gate          admissionGate
}

func NewUseCase(
	tx TxRunner,
	warehouseRepo repository.WarehouseRepository,
	loadRepo repository.LoadEventRepository,
	clk clock.Clock,
	log *logger.Logger,
	chunkSize int,
) *UseCase {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &UseCase{
		tx:            tx,
		warehouseRepo: warehouseRepo,
		loadRepo:      loadRepo,
		clk:           clk,
		log:           log,
		chunkSize:     chunkSize,
	}
}

// StartLoad valida la admisión de una carga, crea el evento y dispara el
// procesamiento en segundo plano. Devuelve el evento recién creado para que
// el cliente pueda consultar su avance.
//
// Orden de rechazo: archivo vacío, carga en curso, nombre duplicado y
// fecha futura.
func (uc *UseCase) StartLoad(ctx context.Context, fileName string, stockDate time.Time, uploadedBy string, rows []dto.SnapshotRow) (*entity.LoadEvent, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}

	inProgress, err := uc.loadRepo.ExistsInProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("verificar cargas en curso: %w", err)
	}
	if inProgress {
		return nil, domain.ErrLoadInProgress
	}

	duplicated, err := uc.loadRepo.ExistsByFileName(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("verificar nombre de archivo: %w", err)
	}
	if duplicated {
		return nil, domain.ErrDuplicateFile
	}

	if stockDate.After(uc.clk.Today()) {
		return nil, domain.ErrFutureDate
	}

	if !uc.gate.TryAcquire() {
		return nil, domain.ErrLoadInProgress
	}

	warehouse, err := uc.resolveWarehouse(ctx, rows[0], fileName)
	if err != nil {
		uc.gate.Release()
		return nil, err
	}

	event := &entity.LoadEvent{
		FileName:    fileName,
		WarehouseID: warehouse.ID,
		StockDate:   stockDate,
		UploadedBy:  uploadedBy,
		Module:      entity.ModuleStock,
		State:       entity.LoadInProgress,
		TotalRows:   len(rows),
	}
	if err := uc.loadRepo.Create(ctx, event); err != nil {
		uc.gate.Release()
		return nil, fmt.Errorf("crear evento de carga: %w", err)
	}

	go uc.processAsync(event, warehouse, stockDate, rows)

	return event, nil
}

// Status devuelve el avance actual de un evento de carga.
func (uc *UseCase) Status(ctx context.Context, eventID int64) (*dto.LoadStatusResponse, error) {
	event, err := uc.loadRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("obtener evento de carga: %w", err)
	}
	if event == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.LoadStatusResponse{
		State:        event.State,
		Processed:    event.Processed,
		Total:        event.TotalRows,
		Percent:      event.Percent,
		Observations: event.Observations,
	}, nil
}

// processAsync corre fuera del ciclo del request: todo error termina en el
// estado del evento, nunca se propaga hacia arriba.
func (uc *UseCase) processAsync(event *entity.LoadEvent, warehouse *entity.Warehouse, stockDate time.Time, rows []dto.SnapshotRow) {
	defer uc.gate.Release()

	ctx := context.Background()
	runID := uuid.NewString()
	log := uc.log.Component("ingesta")

	log.Info().
		Str("run_id", runID).
		Int64("evento_id", event.ID).
		Str("archivo", event.FileName).
		Int("filas", len(rows)).
		Msg("inicio de procesamiento de carga")

	defer func() {
		if r := recover(); r != nil {
			obs := fmt.Sprintf("pánico durante el procesamiento: %v", r)
			if err := uc.loadRepo.MarkFailed(ctx, event.ID, obs, nil, nil); err != nil {
				log.Error().Err(err).Int64("evento_id", event.ID).Msg("marcar carga fallida tras pánico")
			}
			metrics.IngestLoadsFinished.WithLabelValues(entity.LoadFailed).Inc()
		}
	}()

	firstID, lastID, err := uc.processSnapshot(ctx, event, warehouse, stockDate, rows, log, runID)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Int64("evento_id", event.ID).Msg("carga fallida")
		if mErr := uc.loadRepo.MarkFailed(ctx, event.ID, err.Error(), firstID, lastID); mErr != nil {
			log.Error().Err(mErr).Int64("evento_id", event.ID).Msg("marcar carga fallida")
		}
		metrics.IngestLoadsFinished.WithLabelValues(entity.LoadFailed).Inc()
		return
	}

	if err := uc.loadRepo.MarkCompleted(ctx, event.ID, firstID, lastID); err != nil {
		log.Error().Err(err).Int64("evento_id", event.ID).Msg("marcar carga completada")
		return
	}
	metrics.IngestLoadsFinished.WithLabelValues(entity.LoadCompleted).Inc()
	log.Info().
		Str("run_id", runID).
		Int64("evento_id", event.ID).
		Msg("carga completada")
}

// processSnapshot recorre la foto en bloques; cada bloque corre en su propia
// transacción y el avance se persiste antes de empezar el siguiente.
func (uc *UseCase) processSnapshot(ctx context.Context, event *entity.LoadEvent, warehouse *entity.Warehouse, stockDate time.Time, rows []dto.SnapshotRow, log *logger.Logger, runID string) (firstID, lastID *int64, err error) {
	total := len(rows)
	processed := 0

	for start := 0; start < total; start += uc.chunkSize {
		end := start + uc.chunkSize
		if end > total {
			end = total
		}
		chunk := rows[start:end]

		// Los ids del bloque recién cuentan cuando la transacción confirma:
		// un rollback los deja apuntando a asientos que no existen.
		var chunkFirst, chunkLast *int64
		chunkProcessed := 0

		txErr := uc.tx.Run(ctx, func(itemRepo repository.ItemRepository, ledgerRepo repository.LedgerRepository) error {
			for i := range chunk {
				entryID, rowErr := uc.processRow(ctx, itemRepo, ledgerRepo, &chunk[i], warehouse, stockDate, event.ID)
				if rowErr != nil {
					return fmt.Errorf("fila %d: %w", start+i+1, rowErr)
				}
				if entryID != nil {
					if chunkFirst == nil {
						chunkFirst = entryID
					}
					chunkLast = entryID
				}
				chunkProcessed++
				metrics.IngestRowsProcessed.Inc()
			}
			return nil
		})
		if txErr != nil {
			return firstID, lastID, txErr
		}

		if chunkFirst != nil {
			if firstID == nil {
				firstID = chunkFirst
			}
			lastID = chunkLast
		}
		processed += chunkProcessed

		percent := processed * 100 / total
		if percent > 100 {
			percent = 100
		}
		if err := uc.loadRepo.UpdateProgress(ctx, event.ID, processed, percent); err != nil {
			return firstID, lastID, fmt.Errorf("actualizar avance: %w", err)
		}

		log.Debug().
			Str("run_id", runID).
			Int64("evento_id", event.ID).
			Int("procesadas", processed).
			Int("total", total).
			Int("porcentaje", percent).
			Msg("bloque persistido")
	}

	return firstID, lastID, nil
}

// processRow compara la fila contra el último asiento del par
// (artículo, sucursal) y sólo agrega un asiento cuando la cantidad cambió.
// Devuelve el id del asiento creado, o nil si la fila se salteó.
func (uc *UseCase) processRow(ctx context.Context, itemRepo repository.ItemRepository, ledgerRepo repository.LedgerRepository, row *dto.SnapshotRow, warehouse *entity.Warehouse, stockDate time.Time, eventID int64) (*int64, error) {
	sku := strings.TrimSpace(deref(row.SKU))
	if sku == "" || row.Quantity == nil {
		return nil, nil
	}
	quantity := *row.Quantity

	item, err := itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("buscar artículo %s: %w", sku, err)
	}
	if item == nil {
		item = &entity.Item{
			SKU:         sku,
			MasterID:    deref(row.MasterID),
			Description: deref(row.Description),
			Color:       deref(row.Color),
			Environment: deref(row.Environment),
			Family:      deref(row.Family),
			Level3:      deref(row.Level3),
			Level4:      deref(row.Level4),
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("crear artículo %s: %w", sku, err)
		}
	}

	latest, err := ledgerRepo.Latest(ctx, item.ID, warehouse.ID)
	if err != nil {
		return nil, fmt.Errorf("buscar último asiento de %s: %w", sku, err)
	}
	if latest != nil && latest.Quantity == quantity {
		return nil, nil
	}

	exists, err := ledgerRepo.ExistsForDate(ctx, item.ID, warehouse.ID, stockDate)
	if err != nil {
		return nil, fmt.Errorf("verificar asiento existente de %s: %w", sku, err)
	}
	if exists {
		return nil, nil
	}

	entry := &entity.LedgerEntry{
		ItemID:      item.ID,
		WarehouseID: warehouse.ID,
		LoadEventID: eventID,
		StockDate:   stockDate,
		Quantity:    quantity,
		IsInitial:   latest == nil,
	}
	if latest == nil {
		entry.IsNewArrival = true
	} else {
		prev := latest.Quantity
		entry.PreviousQuantity = &prev
		entry.IsNewArrival = quantity >= prev
	}

	if err := ledgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("registrar asiento de %s: %w", sku, err)
	}
	metrics.IngestEntriesAppended.Inc()

	return &entry.ID, nil
}

// resolveWarehouse ubica la sucursal de la carga a partir de la primera fila
// con datos; si no existe la crea. Cuando la fila no trae nombre, se deduce
// del nombre del archivo (el tramo después del último guión bajo).
func (uc *UseCase) resolveWarehouse(ctx context.Context, first dto.SnapshotRow, fileName string) (*entity.Warehouse, error) {
	if first.DepositID != nil {
		warehouse, err := uc.warehouseRepo.GetByDepositID(ctx, *first.DepositID)
		if err != nil {
			return nil, fmt.Errorf("buscar sucursal: %w", err)
		}
		if warehouse != nil {
			return warehouse, nil
		}
	}

	name := strings.TrimSpace(deref(first.DepositName))
	if name == "" {
		name = warehouseNameFromFile(fileName)
	}

	warehouse := &entity.Warehouse{
		DepositID:   first.DepositID,
		DepositCode: deref(first.DepositCode),
		Name:        name,
	}
	if err := uc.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("crear sucursal: %w", err)
	}
	return warehouse, nil
}

// warehouseNameFromFile extrae el nombre de sucursal de archivos con forma
// "stock_20240101_Centro.xlsx".
func warehouseNameFromFile(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if idx := strings.LastIndex(base, "_"); idx >= 0 && idx+1 < len(base) {
		return base[idx+1:]
	}
	return base
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
