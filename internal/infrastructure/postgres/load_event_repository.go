package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.LoadEventRepository = (*LoadEventRepo)(nil)

// LoadEventRepo implementación de LoadEventRepository sobre PostgreSQL.
type LoadEventRepo struct {
	q Querier
}

// NewLoadEventRepository construye el adaptador de eventos de carga. Pasar pool o tx (Querier).
func NewLoadEventRepository(q Querier) *LoadEventRepo {
	return &LoadEventRepo{q: q}
}

// Create persiste el evento recién admitido y completa event.ID.
func (r *LoadEventRepo) Create(ctx context.Context, event *entity.LoadEvent) error {
	query := `
		INSERT INTO load_events
			(file_name, warehouse_id, stock_date, uploaded_by, module, state,
			 total_rows, processed, percent, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, '', now())
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		event.FileName, event.WarehouseID, event.StockDate, event.UploadedBy,
		event.Module, event.State, event.TotalRows,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateFile
		}
		return fmt.Errorf("insert load event: %w", err)
	}
	return nil
}

// GetByID busca un evento por id; nil si no existe.
func (r *LoadEventRepo) GetByID(ctx context.Context, id int64) (*entity.LoadEvent, error) {
	query := `
		SELECT id, file_name, warehouse_id, stock_date, uploaded_by, module, state,
		       total_rows, processed, percent, observations,
		       first_ledger_id, last_ledger_id, created_at
		FROM load_events WHERE id = $1`
	var e entity.LoadEvent
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.FileName, &e.WarehouseID, &e.StockDate, &e.UploadedBy, &e.Module,
		&e.State, &e.TotalRows, &e.Processed, &e.Percent, &e.Observations,
		&e.FirstLedgerID, &e.LastLedgerID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get load event: %w", err)
	}
	return &e, nil
}

// UpdateProgress persiste los contadores de avance del evento.
func (r *LoadEventRepo) UpdateProgress(ctx context.Context, id int64, processed, percent int) error {
	query := `UPDATE load_events SET processed = $2, percent = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, processed, percent); err != nil {
		return fmt.Errorf("update load event progress: %w", err)
	}
	return nil
}

// MarkCompleted finaliza el evento en COMPLETADO con su rango de asientos.
// El filtro por estado garantiza que un evento terminal no vuelva a mutar.
func (r *LoadEventRepo) MarkCompleted(ctx context.Context, id int64, firstLedgerID, lastLedgerID *int64) error {
	query := `
		UPDATE load_events
		SET state = $2, percent = 100, processed = total_rows,
		    first_ledger_id = $3, last_ledger_id = $4
		WHERE id = $1 AND state = $5`
	if _, err := r.q.Exec(ctx, query, id, entity.LoadCompleted, firstLedgerID, lastLedgerID, entity.LoadInProgress); err != nil {
		return fmt.Errorf("mark load event completed: %w", err)
	}
	return nil
}

// MarkFailed finaliza el evento en FALLIDO con el texto del error y el rango
// parcial de asientos que alcanzó a escribir.
func (r *LoadEventRepo) MarkFailed(ctx context.Context, id int64, observations string, firstLedgerID, lastLedgerID *int64) error {
	query := `
		UPDATE load_events
		SET state = $2, observations = $3, first_ledger_id = $4, last_ledger_id = $5
		WHERE id = $1 AND state = $6`
	if _, err := r.q.Exec(ctx, query, id, entity.LoadFailed, observations, firstLedgerID, lastLedgerID, entity.LoadInProgress); err != nil {
		return fmt.Errorf("mark load event failed: %w", err)
	}
	return nil
}

// ExistsByFileName indica si ya se cargó un archivo con ese nombre.
func (r *LoadEventRepo) ExistsByFileName(ctx context.Context, fileName string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM load_events WHERE file_name = $1)`, fileName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check load event by file name: %w", err)
	}
	return exists, nil
}

// ExistsInProgress indica si hay alguna carga EN_PROCESO.
func (r *LoadEventRepo) ExistsInProgress(ctx context.Context) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM load_events WHERE state = $1)`, entity.LoadInProgress,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check load event in progress: %w", err)
	}
	return exists, nil
}

// UploadCounts cargas de stock por (fecha de negocio, sucursal) en el rango.
func (r *LoadEventRepo) UploadCounts(ctx context.Context, from, to time.Time, warehouseID *int64) ([]repository.UploadCountRow, error) {
	args := []any{entity.ModuleStock, from, to}
	query := `
		SELECT stock_date, warehouse_id, COUNT(*)
		FROM load_events
		WHERE module = $1 AND stock_date BETWEEN $2 AND $3`
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	}
	query += ` GROUP BY stock_date, warehouse_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query upload counts: %w", err)
	}
	defer rows.Close()

	var out []repository.UploadCountRow
	for rows.Next() {
		var u repository.UploadCountRow
		if err := rows.Scan(&u.StockDate, &u.WarehouseID, &u.Uploads); err != nil {
			return nil, fmt.Errorf("scan upload count row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// KPIs totales, exitosas y porcentaje promedio de completitud en el rango.
func (r *LoadEventRepo) KPIs(ctx context.Context, from, to time.Time, warehouseID *int64) (repository.LoadKPIs, error) {
	args := []any{entity.ModuleStock, from, to, entity.LoadCompleted}
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE state = $4),
		       COALESCE(AVG(percent), 0)
		FROM load_events
		WHERE module = $1 AND stock_date BETWEEN $2 AND $3`
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	}

	var kpis repository.LoadKPIs
	var avg decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&kpis.Total, &kpis.Succeeded, &avg); err != nil {
		return repository.LoadKPIs{}, fmt.Errorf("query load kpis: %w", err)
	}
	kpis.AveragePercent = avg
	return kpis, nil
}

// Recent últimos eventos de stock del rango, más recientes primero.
func (r *LoadEventRepo) Recent(ctx context.Context, from, to time.Time, warehouseID *int64, limit int) ([]repository.LoadEventView, error) {
	args := []any{entity.ModuleStock, from, to}
	query := `
		SELECT e.created_at, w.name, e.uploaded_by, e.file_name,
		       e.processed, e.total_rows, e.percent, e.state
		FROM load_events e
		JOIN warehouses w ON w.id = e.warehouse_id
		WHERE e.module = $1 AND e.stock_date BETWEEN $2 AND $3`
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += fmt.Sprintf(" AND e.warehouse_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent load events: %w", err)
	}
	defer rows.Close()

	var out []repository.LoadEventView
	for rows.Next() {
		var v repository.LoadEventView
		if err := rows.Scan(&v.CreatedAt, &v.Warehouse, &v.User, &v.FileName,
			&v.Processed, &v.TotalRows, &v.Percent, &v.State); err != nil {
			return nil, fmt.Errorf("scan recent load event: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
