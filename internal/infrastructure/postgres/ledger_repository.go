package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL. El libro es
// append-only: este adaptador no emite UPDATE ni DELETE sobre stock_history.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro mayor. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta el asiento y completa entry.ID y entry.LoadedAt.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_history
			(item_id, warehouse_id, load_event_id, stock_date, quantity,
			 previous_quantity, is_initial, is_new_arrival, loaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, loaded_at`
	err := r.q.QueryRow(ctx, query,
		entry.ItemID, entry.WarehouseID, entry.LoadEventID, entry.StockDate,
		entry.Quantity, entry.PreviousQuantity, entry.IsInitial, entry.IsNewArrival,
	).Scan(&entry.ID, &entry.LoadedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// Latest devuelve el asiento más reciente del par; nil si nunca fue observado.
func (r *LedgerRepo) Latest(ctx context.Context, itemID, warehouseID int64) (*entity.LedgerEntry, error) {
	query := `
		SELECT id, item_id, warehouse_id, load_event_id, stock_date, quantity,
		       previous_quantity, is_initial, is_new_arrival, loaded_at
		FROM stock_history
		WHERE item_id = $1 AND warehouse_id = $2
		ORDER BY stock_date DESC, id DESC
		LIMIT 1`
	var e entity.LedgerEntry
	err := r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(
		&e.ID, &e.ItemID, &e.WarehouseID, &e.LoadEventID, &e.StockDate,
		&e.Quantity, &e.PreviousQuantity, &e.IsInitial, &e.IsNewArrival, &e.LoadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest ledger entry: %w", err)
	}
	return &e, nil
}

// ExistsForDate indica si el par ya tiene un asiento en esa fecha de negocio.
func (r *LedgerRepo) ExistsForDate(ctx context.Context, itemID, warehouseID int64, stockDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_history
			WHERE item_id = $1 AND warehouse_id = $2 AND stock_date = $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, itemID, warehouseID, stockDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("check ledger entry for date: %w", err)
	}
	return exists, nil
}

// BaselineTotals total por clave del corte, tomando la última fila de cada
// par (MAX(id) por par) estrictamente anterior a before.
func (r *LedgerRepo) BaselineTotals(ctx context.Context, cut entity.HierarchyCut, before time.Time) ([]repository.BaselineRow, error) {
	args := []any{before}
	keyExpr, joinWarehouse := cutKeyExpr(cut)
	where := cutConditions(cut, &args)

	query := fmt.Sprintf(`
		SELECT %s AS key, COALESCE(SUM(h.quantity), 0) AS total
		FROM stock_history h
		JOIN (
			SELECT item_id, warehouse_id, MAX(id) AS max_id
			FROM stock_history
			WHERE stock_date < $1
			GROUP BY item_id, warehouse_id
		) last ON last.max_id = h.id
		JOIN items i ON i.id = h.item_id
		%s
		%s
		GROUP BY %s`,
		keyExpr, warehouseJoin(joinWarehouse), whereClause(where), keyExpr)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query baseline totals: %w", err)
	}
	defer rows.Close()

	var out []repository.BaselineRow
	for rows.Next() {
		var b repository.BaselineRow
		if err := rows.Scan(&b.Key, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DailyDeltas cambio neto diario por clave del corte:
// SUM(quantity - COALESCE(previous_quantity, 0)) agrupado por fecha.
func (r *LedgerRepo) DailyDeltas(ctx context.Context, cut entity.HierarchyCut, from, to time.Time) ([]repository.DeltaRow, error) {
	args := []any{from, to}
	keyExpr, joinWarehouse := cutKeyExpr(cut)
	where := append([]string{"h.stock_date BETWEEN $1 AND $2"}, cutConditions(cut, &args)...)

	query := fmt.Sprintf(`
		SELECT %s AS key, h.stock_date,
		       COALESCE(SUM(h.quantity - COALESCE(h.previous_quantity, 0)), 0) AS delta
		FROM stock_history h
		JOIN items i ON i.id = h.item_id
		%s
		%s
		GROUP BY %s, h.stock_date
		ORDER BY h.stock_date`,
		keyExpr, warehouseJoin(joinWarehouse), whereClause(where), keyExpr)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily deltas: %w", err)
	}
	defer rows.Close()

	var out []repository.DeltaRow
	for rows.Next() {
		var d repository.DeltaRow
		if err := rows.Scan(&d.Key, &d.StockDate, &d.Delta); err != nil {
			return nil, fmt.Errorf("scan delta row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stockouts asientos con cantidad 0 desde since, más recientes primero.
func (r *LedgerRepo) Stockouts(ctx context.Context, since time.Time, warehouseID *int64) ([]repository.StockoutRow, error) {
	args := []any{since}
	query := `
		SELECT h.id, h.item_id, h.warehouse_id, i.sku, i.description,
		       i.environment, i.family, w.name, h.stock_date
		FROM stock_history h
		JOIN items i ON i.id = h.item_id
		JOIN warehouses w ON w.id = h.warehouse_id
		WHERE h.quantity = 0 AND h.stock_date >= $1`
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += fmt.Sprintf(" AND h.warehouse_id = $%d", len(args))
	}
	query += ` ORDER BY h.stock_date DESC, h.id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stockouts: %w", err)
	}
	defer rows.Close()

	var out []repository.StockoutRow
	for rows.Next() {
		var s repository.StockoutRow
		if err := rows.Scan(&s.EntryID, &s.ItemID, &s.WarehouseID, &s.SKU, &s.Description,
			&s.Environment, &s.Family, &s.Warehouse, &s.StockDate); err != nil {
			return nil, fmt.Errorf("scan stockout row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ArrivalsForItems ingresos de los items dados, por id descendente, para que
// el llamador vincule cada quiebre con el primer ingreso de id menor.
func (r *LedgerRepo) ArrivalsForItems(ctx context.Context, itemIDs []int64, warehouseID *int64) ([]repository.ArrivalRow, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	args := []any{itemIDs}
	query := `
		SELECT h.id, h.item_id, h.warehouse_id, h.stock_date, h.quantity, h.previous_quantity
		FROM stock_history h
		WHERE h.is_new_arrival = true AND h.item_id = ANY($1)`
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += fmt.Sprintf(" AND h.warehouse_id = $%d", len(args))
	}
	query += ` ORDER BY h.id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query arrivals: %w", err)
	}
	defer rows.Close()

	var out []repository.ArrivalRow
	for rows.Next() {
		var a repository.ArrivalRow
		if err := rows.Scan(&a.EntryID, &a.ItemID, &a.WarehouseID, &a.StockDate, &a.Quantity, &a.PreviousQuantity); err != nil {
			return nil, fmt.Errorf("scan arrival row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ConsumptionByFamily consumo neto por (ambiente, familia, fecha): bajas de
// cantidad que no son ingresos.
func (r *LedgerRepo) ConsumptionByFamily(ctx context.Context, from, to time.Time, warehouseID *int64) ([]repository.ConsumptionRow, error) {
	args := []any{from, to}
	query := fmt.Sprintf(`
		SELECT COALESCE(NULLIF(i.environment, ''), '%s') AS environment,
		       COALESCE(NULLIF(i.family, ''), '%s') AS family,
		       h.stock_date,
		       COALESCE(SUM(h.previous_quantity - h.quantity), 0) AS consumed
		FROM stock_history h
		JOIN items i ON i.id = h.item_id
		WHERE h.is_new_arrival = false
		  AND h.previous_quantity IS NOT NULL
		  AND h.quantity < h.previous_quantity
		  AND h.stock_date BETWEEN $1 AND $2`,
		entity.NoEnvironment, entity.NoFamily)
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += fmt.Sprintf(" AND h.warehouse_id = $%d", len(args))
	}
	query += `
		GROUP BY 1, 2, h.stock_date
		ORDER BY h.stock_date`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query consumption: %w", err)
	}
	defer rows.Close()

	var out []repository.ConsumptionRow
	for rows.Next() {
		var c repository.ConsumptionRow
		if err := rows.Scan(&c.Environment, &c.Family, &c.StockDate, &c.Consumed); err != nil {
			return nil, fmt.Errorf("scan consumption row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LatestSnapshot última observación de cada par con su jerarquía completa.
func (r *LedgerRepo) LatestSnapshot(ctx context.Context, warehouseID *int64) ([]repository.SnapshotRow, error) {
	var args []any
	query := `
		SELECT i.environment, i.family, i.level3, i.level4, h.quantity
		FROM stock_history h
		JOIN (
			SELECT item_id, warehouse_id, MAX(id) AS max_id
			FROM stock_history
			GROUP BY item_id, warehouse_id
		) last ON last.max_id = h.id
		JOIN items i ON i.id = h.item_id`
	if warehouseID != nil {
		args = append(args, *warehouseID)
		query += ` WHERE h.warehouse_id = $1`
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	var out []repository.SnapshotRow
	for rows.Next() {
		var s repository.SnapshotRow
		if err := rows.Scan(&s.Environment, &s.Family, &s.Level3, &s.Level4, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// cutKeyExpr expresión SQL de la clave de agrupación para cada nivel del
// corte. Los niveles vacíos se agrupan bajo su etiqueta de relleno. Devuelve
// además si la consulta necesita el join con warehouses.
func cutKeyExpr(cut entity.HierarchyCut) (string, bool) {
	switch cut.Level {
	case entity.LevelWarehouse:
		return "w.name", true
	case entity.LevelEnvironment:
		return fmt.Sprintf("COALESCE(NULLIF(i.environment, ''), '%s')", entity.NoEnvironment), false
	case entity.LevelFamily:
		return fmt.Sprintf("COALESCE(NULLIF(i.family, ''), '%s')", entity.NoFamily), false
	case entity.LevelLevel3:
		return fmt.Sprintf("COALESCE(NULLIF(i.level3, ''), '%s')", entity.NoLevel3), false
	case entity.LevelLevel4:
		return fmt.Sprintf("COALESCE(NULLIF(i.level4, ''), '%s')", entity.NoLevel4), false
	default:
		return "i.sku", false
	}
}

// cutConditions condiciones de igualdad de los filtros presentes en el corte,
// numerando los placeholders a continuación de args.
func cutConditions(cut entity.HierarchyCut, args *[]any) []string {
	var conds []string
	add := func(column string, value any) {
		*args = append(*args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(*args)))
	}
	if cut.WarehouseID != nil {
		add("h.warehouse_id", *cut.WarehouseID)
	}
	if cut.Environment != nil {
		add("i.environment", *cut.Environment)
	}
	if cut.Family != nil {
		add("i.family", *cut.Family)
	}
	if cut.Level3 != nil {
		add("i.level3", *cut.Level3)
	}
	if cut.Level4 != nil {
		add("i.level4", *cut.Level4)
	}
	if cut.SKU != nil {
		add("i.sku", *cut.SKU)
	}
	return conds
}

func warehouseJoin(needed bool) string {
	if needed {
		return "JOIN warehouses w ON w.id = h.warehouse_id"
	}
	return ""
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}
