package dto

import "github.com/shopspring/decimal"

// ComplianceDayDTO veredicto de cumplimiento de una sucursal en una fecha.
// La grilla incluye todos los pares (fecha, sucursal activa), también los que
// no cargaron nada ese día (Uploads = 0).
type ComplianceDayDTO struct {
	Date        string  `json:"fecha"` // YYYY-MM-DD
	WarehouseID int64   `json:"sucursal_id"`
	Warehouse   string  `json:"sucursal"`
	ActualDay   string  `json:"dia"`                     // nombre del día en español
	ExpectedDay *string `json:"dia_esperado,omitempty"`  // upd_stock configurado
	Uploads     int     `json:"cantidad_cargas"`
	HighVolume  bool    `json:"estado_volumen"` // más de 2 cargas en el día
	Compliant   bool    `json:"cumple_regla"`
}

// LoadKPIsDTO indicadores del tablero de auditoría.
type LoadKPIsDTO struct {
	Total          int64           `json:"total_cargas"`
	Succeeded      int64           `json:"cargas_exitosas"`
	Failed         int64           `json:"con_errores"`
	AveragePercent decimal.Decimal `json:"promedio_completado"`
}

// LoadEventDTO fila de la tabla de cargas recientes.
type LoadEventDTO struct {
	Date      string `json:"fecha"` // timestamp RFC3339 de la carga
	Warehouse string `json:"sucursal"`
	User      string `json:"usuario"`
	FileName  string `json:"nombre_archivo"`
	Processed int    `json:"procesados"`
	TotalRows int    `json:"total_registros"`
	Percent   int    `json:"porcentaje"`
	State     string `json:"estado"`
}
