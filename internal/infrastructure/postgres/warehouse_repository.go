package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de sucursales. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, deposit_id, deposit_code, name, expected_upload_day, disabled, created_at`

// Create persiste una sucursal nueva y completa warehouse.ID.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (deposit_id, deposit_code, name, disabled, created_at)
		VALUES ($1, $2, $3, false, now())
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		warehouse.DepositID, warehouse.DepositCode, warehouse.Name,
	).Scan(&warehouse.ID, &warehouse.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID busca una sucursal por id; nil si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get warehouse by id")
}

// GetByDepositID busca una sucursal por su id de depósito externo; nil si no existe.
func (r *WarehouseRepo) GetByDepositID(ctx context.Context, depositID int64) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE deposit_id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, depositID), "get warehouse by deposit id")
}

// List devuelve las sucursales ordenadas por nombre; con onlyEnabled filtra
// las deshabilitadas.
func (r *WarehouseRepo) List(ctx context.Context, onlyEnabled bool) ([]*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses`
	if onlyEnabled {
		query += ` WHERE disabled = false`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.DepositID, &w.DepositCode, &w.Name, &w.ExpectedUploadDay, &w.Disabled, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, &w)
	}
	return warehouses, rows.Err()
}

// SetExpectedUploadDay fija (o limpia, con nil) el día esperado de carga.
func (r *WarehouseRepo) SetExpectedUploadDay(ctx context.Context, id int64, day *string) error {
	_, err := r.q.Exec(ctx, `UPDATE warehouses SET expected_upload_day = $2 WHERE id = $1`, id, day)
	if err != nil {
		return fmt.Errorf("update expected upload day: %w", err)
	}
	return nil
}

// SetDisabled habilita o deshabilita la sucursal.
func (r *WarehouseRepo) SetDisabled(ctx context.Context, id int64, disabled bool) error {
	_, err := r.q.Exec(ctx, `UPDATE warehouses SET disabled = $2 WHERE id = $1`, id, disabled)
	if err != nil {
		return fmt.Errorf("update warehouse disabled: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) scanOne(row pgx.Row, op string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.DepositID, &w.DepositCode, &w.Name, &w.ExpectedUploadDay, &w.Disabled, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &w, nil
}
